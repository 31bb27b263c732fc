package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/db"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
	"github.com/yigit/sectionhub/internal/pkg/logger"
)

var studentColumns = []string{"id", "first_name", "last_name", "email", "date_of_birth", "created_at", "updated_at"}

var studentSortColumns = map[string]string{
	"id":            "st.id",
	"first_name":    "st.first_name",
	"last_name":     "st.last_name",
	"email":         "st.email",
	"date_of_birth": "st.date_of_birth",
	"created_at":    "st.created_at",
	"updated_at":    "st.updated_at",
}

// PgStudentRepository handles student database operations
type PgStudentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new PgStudentRepository
func NewStudentRepository(database *db.PostgresDB) *PgStudentRepository {
	return &PgStudentRepository{db: database, sb: newStatementBuilder()}
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PgStudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(qualify("st", studentColumns)...).From("students st")
}

func studentSearchFilter(query string) squirrel.Sqlizer {
	pattern := containsPattern(query)
	return squirrel.Or{
		squirrel.ILike{"st.first_name": pattern},
		squirrel.ILike{"st.last_name": pattern},
		squirrel.ILike{"st.email": pattern},
	}
}

func (r *PgStudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.selectStudents().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

// GetByID retrieves a student by ID
func (r *PgStudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"st.id": id})
}

// GetByEmail retrieves a student by email
func (r *PgStudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"st.email": email})
}

// List retrieves one page of students
func (r *PgStudentRepository) List(ctx context.Context, params ListParams) ([]*models.Student, error) {
	students, err := collect(ctx, r.db.Pool, paginate(r.selectStudents(), params, studentSortColumns, "st.id"), scanStudent)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, err
	}
	return students, nil
}

// Count returns the number of students
func (r *PgStudentRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("students st"))
}

// Search matches first name, last name or email by case-insensitive substring
func (r *PgStudentRepository) Search(ctx context.Context, query string, params ListParams) ([]*models.Student, error) {
	builder := paginate(r.selectStudents().Where(studentSearchFilter(query)), params, studentSortColumns, "st.id")
	students, err := collect(ctx, r.db.Pool, builder, scanStudent)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("Error searching students")
		return nil, err
	}
	return students, nil
}

// CountSearch counts the rows Search would page through
func (r *PgStudentRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("students st").Where(studentSearchFilter(query)))
}

// ListBySection retrieves one page of the students enrolled in a section
func (r *PgStudentRepository) ListBySection(ctx context.Context, sectionID int64, params ListParams) ([]*models.Student, error) {
	builder := r.selectStudents().
		Join("student_sections ss ON ss.student_id = st.id").
		Where(squirrel.Eq{"ss.section_id": sectionID})

	students, err := collect(ctx, r.db.Pool, paginate(builder, params, studentSortColumns, "st.id"), scanStudent)
	if err != nil {
		logger.Error().Err(err).Int64("sectionID", sectionID).Msg("Error listing students by section")
		return nil, err
	}
	return students, nil
}

// CountBySection returns the number of students enrolled in a section
func (r *PgStudentRepository) CountBySection(ctx context.Context, sectionID int64) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("student_sections").Where(squirrel.Eq{"section_id": sectionID}))
}

// Enrollments returns the sections a student is enrolled in, oldest first
func (r *PgStudentRepository) Enrollments(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error) {
	sql, args, err := r.sb.Select("sec.id", "sec.name", "ss.enrollment_date").
		From("student_sections ss").
		Join("sections sec ON sec.id = ss.section_id").
		Where(squirrel.Eq{"ss.student_id": studentID}).
		OrderBy("ss.enrollment_date ASC", "sec.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student enrollments query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying student enrollments")
		return nil, fmt.Errorf("error querying student enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.StudentEnrollment{}
	for rows.Next() {
		var e models.StudentEnrollment
		if err := rows.Scan(&e.SectionID, &e.SectionName, &e.EnrollmentDate); err != nil {
			return nil, fmt.Errorf("error scanning student enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student enrollments: %w", err)
	}
	return enrollments, nil
}

// Create inserts a student
func (r *PgStudentRepository) Create(ctx context.Context, in models.StudentCreate) (*models.Student, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("first_name", "last_name", "email", "date_of_birth").
		Values(in.FirstName, in.LastName, in.Email, in.DateOfBirth).
		Suffix("RETURNING " + joinColumns(studentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	student, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Msg("Error creating student")
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

func studentUpdateFields(in models.StudentUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.DateOfBirth != nil {
		fields["date_of_birth"] = *in.DateOfBirth
	}
	return withUpdatedAt(fields)
}

// Update changes the provided student fields
func (r *PgStudentRepository) Update(ctx context.Context, id int64, in models.StudentUpdate) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		SetMap(studentUpdateFields(in)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(studentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student")
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return student, nil
}

// Delete removes a student; enrollments go with it through ON DELETE CASCADE
func (r *PgStudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
