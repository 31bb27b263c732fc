package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/db"
)

// Shared repository errors. Services translate these into apperrors.
var (
	ErrNotFound                = errors.New("record not found")
	ErrAlreadyExists           = errors.New("record already exists")
	ErrInvalidReference        = errors.New("referenced record does not exist")
	ErrAlreadyEnrolled         = errors.New("student already enrolled in section")
	ErrNotEnrolled             = errors.New("student not enrolled in section")
	ErrSectionFull             = errors.New("section is full")
	ErrSectionHasEnrollments   = errors.New("section has enrollments")
	ErrCapacityBelowEnrollment = errors.New("capacity below current enrollment")
	ErrRoleInUse               = errors.New("role is assigned to users")
)

// SortOrder is the direction of a list query
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams describes one page of a sorted list
type ListParams struct {
	Offset int
	Limit  int
	SortBy string
	Order  SortOrder
}

// Repository is the CRUD contract every entity repository implements.
// C and U are the entity's insert and partial-update shapes.
type Repository[T any, C any, U any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, params ListParams) ([]*T, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, in C) (*T, error)
	Update(ctx context.Context, id int64, in U) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// RoleRepository persists roles
type RoleRepository interface {
	Repository[models.Role, models.RoleCreate, models.RoleUpdate]
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
}

// UserRepository persists users; every loaded user carries its role
type UserRepository interface {
	Repository[models.User, models.UserCreate, models.UserUpdate]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, roleID int64) (int64, error)
}

// StudentRepository persists students
type StudentRepository interface {
	Repository[models.Student, models.StudentCreate, models.StudentUpdate]
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	Search(ctx context.Context, query string, params ListParams) ([]*models.Student, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	ListBySection(ctx context.Context, sectionID int64, params ListParams) ([]*models.Student, error)
	CountBySection(ctx context.Context, sectionID int64) (int64, error)
	Enrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error)
}

// SectionRepository persists sections.
// Update refuses to drop max_capacity below the live enrollment count and
// Delete refuses to remove a section with enrollments; both check under a row lock.
type SectionRepository interface {
	Repository[models.Section, models.SectionCreate, models.SectionUpdate]
	GetByName(ctx context.Context, name string) (*models.Section, error)
	Search(ctx context.Context, query string, params ListParams) ([]*models.Section, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	ListAvailable(ctx context.Context, params ListParams) ([]*models.Section, error)
	CountAvailable(ctx context.Context) (int64, error)
	CountStudents(ctx context.Context, sectionID int64) (int, error)
	CountStudentsBySections(ctx context.Context, sectionIDs []int64) (map[int64]int, error)
	Students(ctx context.Context, sectionID int64) ([]models.SectionEnrollment, error)
}

// EnrollmentRepository persists student/section links
type EnrollmentRepository interface {
	IsEnrolled(ctx context.Context, studentID, sectionID int64) (bool, error)
	// Enroll inserts the link after re-checking duplicate and capacity under a section lock
	Enroll(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error)
	Unenroll(ctx context.Context, studentID, sectionID int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Roles       RoleRepository
	Users       UserRepository
	Students    StudentRepository
	Sections    SectionRepository
	Enrollments EnrollmentRepository
}

// NewRepositories initializes all PostgreSQL repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Roles:       NewRoleRepository(database),
		Users:       NewUserRepository(database),
		Students:    NewStudentRepository(database),
		Sections:    NewSectionRepository(database),
		Enrollments: NewEnrollmentRepository(database),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// qualify prefixes every column with a table alias
func qualify(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// paginate applies a whitelisted ORDER BY plus LIMIT/OFFSET.
// Unknown sort keys fall back to the id column.
func paginate(builder squirrel.SelectBuilder, params ListParams, sortable map[string]string, idColumn string) squirrel.SelectBuilder {
	column, ok := sortable[params.SortBy]
	if !ok {
		column = idColumn
	}
	direction := "ASC"
	if params.Order == SortDesc {
		direction = "DESC"
	}

	orderBy := []string{column + " " + direction}
	if column != idColumn {
		orderBy = append(orderBy, idColumn+" ASC")
	}
	builder = builder.OrderBy(orderBy...)

	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		builder = builder.Offset(uint64(params.Offset))
	}
	return builder
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive substring pattern with wildcards escaped
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// countRows runs a COUNT(*) query
func countRows(ctx context.Context, q querier, builder squirrel.SelectBuilder) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return total, nil
}

// collect runs a select and scans every row with scan
func collect[T any](ctx context.Context, q querier, builder squirrel.SelectBuilder, scan func(rowScanner) (*T, error)) ([]*T, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing list query: %w", err)
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// withUpdatedAt adds the updated_at bump every partial update carries
func withUpdatedAt(fields map[string]interface{}) map[string]interface{} {
	fields["updated_at"] = squirrel.Expr("NOW()")
	return fields
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
