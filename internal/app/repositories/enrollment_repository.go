package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/db"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
	"github.com/yigit/sectionhub/internal/pkg/logger"
)

// PgEnrollmentRepository handles student_sections database operations
type PgEnrollmentRepository struct {
	db *db.PostgresDB
}

// NewEnrollmentRepository creates a new PgEnrollmentRepository
func NewEnrollmentRepository(database *db.PostgresDB) *PgEnrollmentRepository {
	return &PgEnrollmentRepository{db: database}
}

func isEnrolled(ctx context.Context, q querier, studentID, sectionID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_sections WHERE student_id = $1 AND section_id = $2)`,
		studentID, sectionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// IsEnrolled checks whether the student/section link exists
func (r *PgEnrollmentRepository) IsEnrolled(ctx context.Context, studentID, sectionID int64) (bool, error) {
	exists, err := isEnrolled(ctx, r.db.Pool, studentID, sectionID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("sectionID", sectionID).Msg("Error checking enrollment")
	}
	return exists, err
}

// Enroll locks the section row, re-checks duplicate and capacity, then inserts.
// Concurrent enrollments into the same section serialize on the lock, so the
// last free seat can only be taken once.
func (r *PgEnrollmentRepository) Enroll(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error) {
	var created models.Enrollment
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		maxCapacity, err := lockSection(ctx, tx, enrollment.SectionID)
		if err != nil {
			return err
		}

		exists, err := isEnrolled(ctx, tx, enrollment.StudentID, enrollment.SectionID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyEnrolled
		}

		count, err := countEnrollments(ctx, tx, enrollment.SectionID)
		if err != nil {
			return err
		}
		if count >= maxCapacity {
			return ErrSectionFull
		}

		return tx.QueryRow(ctx, `
			INSERT INTO student_sections (student_id, section_id, enrollment_date)
			VALUES ($1, $2, $3)
			RETURNING student_id, section_id, enrollment_date, created_at, updated_at`,
			enrollment.StudentID, enrollment.SectionID, enrollment.EnrollmentDate,
		).Scan(&created.StudentID, &created.SectionID, &created.EnrollmentDate, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyEnrolled), errors.Is(err, ErrSectionFull):
			return nil, err
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyEnrolled
		case dberrors.IsForeignKeyViolation(err):
			// the student disappeared between the service check and the insert
			return nil, ErrNotFound
		}
		logger.Error().Err(err).
			Int64("studentID", enrollment.StudentID).
			Int64("sectionID", enrollment.SectionID).
			Msg("Error creating enrollment")
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}
	return &created, nil
}

// Unenroll removes the student/section link
func (r *PgEnrollmentRepository) Unenroll(ctx context.Context, studentID, sectionID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM student_sections WHERE student_id = $1 AND section_id = $2`,
		studentID, sectionID,
	)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("sectionID", sectionID).Msg("Error deleting enrollment")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEnrolled
	}
	return nil
}
