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

var sectionColumns = []string{"id", "name", "description", "max_capacity", "created_at", "updated_at"}

var sectionSortColumns = map[string]string{
	"id":           "s.id",
	"name":         "s.name",
	"max_capacity": "s.max_capacity",
	"created_at":   "s.created_at",
	"updated_at":   "s.updated_at",
}

// enrollmentCounts is joined to sections to find those with free seats
const enrollmentCounts = "(SELECT section_id, COUNT(*) AS student_count FROM student_sections GROUP BY section_id) c ON c.section_id = s.id"

var hasFreeSeats = squirrel.Expr("(c.student_count IS NULL OR c.student_count < s.max_capacity)")

// PgSectionRepository handles section database operations
type PgSectionRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new PgSectionRepository
func NewSectionRepository(database *db.PostgresDB) *PgSectionRepository {
	return &PgSectionRepository{db: database, sb: newStatementBuilder()}
}

func scanSection(row rowScanner) (*models.Section, error) {
	s := &models.Section{}
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.MaxCapacity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PgSectionRepository) selectSections() squirrel.SelectBuilder {
	return r.sb.Select(qualify("s", sectionColumns)...).From("sections s")
}

func sectionSearchFilter(query string) squirrel.Sqlizer {
	pattern := containsPattern(query)
	return squirrel.Or{
		squirrel.ILike{"s.name": pattern},
		squirrel.ILike{"s.description": pattern},
	}
}

func (r *PgSectionRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Section, error) {
	sql, args, err := r.selectSections().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get section query: %w", err)
	}

	section, err := scanSection(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning section row")
		return nil, fmt.Errorf("error getting section: %w", err)
	}
	return section, nil
}

// GetByID retrieves a section by ID
func (r *PgSectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// GetByName retrieves a section by its unique name
func (r *PgSectionRepository) GetByName(ctx context.Context, name string) (*models.Section, error) {
	return r.getOne(ctx, squirrel.Eq{"s.name": name})
}

func (r *PgSectionRepository) list(ctx context.Context, builder squirrel.SelectBuilder, params ListParams) ([]*models.Section, error) {
	sections, err := collect(ctx, r.db.Pool, paginate(builder, params, sectionSortColumns, "s.id"), scanSection)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing sections")
		return nil, err
	}
	return sections, nil
}

// List retrieves one page of sections
func (r *PgSectionRepository) List(ctx context.Context, params ListParams) ([]*models.Section, error) {
	return r.list(ctx, r.selectSections(), params)
}

// Count returns the number of sections
func (r *PgSectionRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("sections s"))
}

// Search matches name or description by case-insensitive substring
func (r *PgSectionRepository) Search(ctx context.Context, query string, params ListParams) ([]*models.Section, error) {
	return r.list(ctx, r.selectSections().Where(sectionSearchFilter(query)), params)
}

// CountSearch counts the rows Search would page through
func (r *PgSectionRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("sections s").Where(sectionSearchFilter(query)))
}

// ListAvailable retrieves sections whose enrollment count is below capacity,
// including sections nobody has enrolled in yet
func (r *PgSectionRepository) ListAvailable(ctx context.Context, params ListParams) ([]*models.Section, error) {
	return r.list(ctx, r.selectSections().LeftJoin(enrollmentCounts).Where(hasFreeSeats), params)
}

// CountAvailable counts the rows ListAvailable would page through
func (r *PgSectionRepository) CountAvailable(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("sections s").LeftJoin(enrollmentCounts).Where(hasFreeSeats))
}

// CountStudents returns the live enrollment count of a section
func (r *PgSectionRepository) CountStudents(ctx context.Context, sectionID int64) (int, error) {
	return countEnrollments(ctx, r.db.Pool, sectionID)
}

func countEnrollments(ctx context.Context, q querier, sectionID int64) (int, error) {
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM student_sections WHERE section_id = $1`, sectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting section enrollments: %w", err)
	}
	return count, nil
}

// CountStudentsBySections returns enrollment counts for many sections in one query.
// Sections without enrollments are absent from the map.
func (r *PgSectionRepository) CountStudentsBySections(ctx context.Context, sectionIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(sectionIDs))
	if len(sectionIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("section_id", "COUNT(*)").
		From("student_sections").
		Where(squirrel.Eq{"section_id": sectionIDs}).
		GroupBy("section_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment counts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying enrollment counts")
		return nil, fmt.Errorf("error querying enrollment counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("error scanning enrollment count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment counts: %w", err)
	}
	return counts, nil
}

// Students returns the students enrolled in a section, oldest enrollment first
func (r *PgSectionRepository) Students(ctx context.Context, sectionID int64) ([]models.SectionEnrollment, error) {
	sql, args, err := r.sb.Select("st.id", "st.first_name", "st.last_name", "st.email", "ss.enrollment_date").
		From("student_sections ss").
		Join("students st ON st.id = ss.student_id").
		Where(squirrel.Eq{"ss.section_id": sectionID}).
		OrderBy("ss.enrollment_date ASC", "st.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build section students query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sectionID", sectionID).Msg("Error querying section students")
		return nil, fmt.Errorf("error querying section students: %w", err)
	}
	defer rows.Close()

	students := []models.SectionEnrollment{}
	for rows.Next() {
		var e models.SectionEnrollment
		if err := rows.Scan(&e.StudentID, &e.FirstName, &e.LastName, &e.Email, &e.EnrollmentDate); err != nil {
			return nil, fmt.Errorf("error scanning section student: %w", err)
		}
		students = append(students, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section students: %w", err)
	}
	return students, nil
}

// Create inserts a section
func (r *PgSectionRepository) Create(ctx context.Context, in models.SectionCreate) (*models.Section, error) {
	sql, args, err := r.sb.Insert("sections").
		Columns("name", "description", "max_capacity").
		Values(in.Name, in.Description, in.MaxCapacity).
		Suffix("RETURNING " + joinColumns(sectionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create section query: %w", err)
	}

	section, err := scanSection(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Str("name", in.Name).Msg("Error creating section")
		return nil, fmt.Errorf("error creating section: %w", err)
	}
	return section, nil
}

// lockSection takes a row lock on a section for the rest of the transaction
func lockSection(ctx context.Context, tx pgx.Tx, sectionID int64) (maxCapacity int, err error) {
	err = tx.QueryRow(ctx, `SELECT max_capacity FROM sections WHERE id = $1 FOR UPDATE`, sectionID).Scan(&maxCapacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error locking section: %w", err)
	}
	return maxCapacity, nil
}

func sectionUpdateFields(in models.SectionUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	switch {
	case in.ClearDescription:
		fields["description"] = nil
	case in.Description != nil:
		fields["description"] = *in.Description
	}
	if in.MaxCapacity != nil {
		fields["max_capacity"] = *in.MaxCapacity
	}
	return withUpdatedAt(fields)
}

// Update changes the provided section fields. A new max_capacity is checked
// against the enrollment count while the section row is locked.
func (r *PgSectionRepository) Update(ctx context.Context, id int64, in models.SectionUpdate) (*models.Section, error) {
	sql, args, err := r.sb.Update("sections").
		SetMap(sectionUpdateFields(in)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(sectionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update section query: %w", err)
	}

	var section *models.Section
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockSection(ctx, tx, id); err != nil {
			return err
		}
		if in.MaxCapacity != nil {
			count, err := countEnrollments(ctx, tx, id)
			if err != nil {
				return err
			}
			if *in.MaxCapacity < count {
				return ErrCapacityBelowEnrollment
			}
		}

		updated, err := scanSection(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}
		section = updated
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrCapacityBelowEnrollment):
			return nil, err
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error updating section")
		return nil, fmt.Errorf("error updating section: %w", err)
	}
	return section, nil
}

// Delete removes a section that has no enrollments
func (r *PgSectionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockSection(ctx, tx, id); err != nil {
			return err
		}
		count, err := countEnrollments(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSectionHasEnrollments
		}
		_, err = tx.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSectionHasEnrollments) {
			return err
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error deleting section")
		return fmt.Errorf("error deleting section: %w", err)
	}
	return nil
}
