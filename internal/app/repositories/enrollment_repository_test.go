package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
)

const (
	isEnrolledSQL       = "SELECT EXISTS(SELECT 1 FROM student_sections WHERE student_id = $1 AND section_id = $2)"
	insertEnrollmentSQL = "INSERT INTO student_sections (student_id, section_id, enrollment_date)"
)

var enrollmentColumns = []string{"student_id", "section_id", "enrollment_date", "created_at", "updated_at"}

func expectEnrolled(mock pgxmock.PgxPoolIface, studentID, sectionID int64, exists bool) {
	mock.ExpectQuery(quoted(isEnrolledSQL)).
		WithArgs(studentID, sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestEnrollmentRepository_Enroll(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	enrollment := models.Enrollment{StudentID: 1, SectionID: 2, EnrollmentDate: date}

	t.Run("takes the last seat", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewEnrollmentRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 2, 3)
		expectEnrolled(mock, 1, 2, false)
		expectCount(mock, 2, 2)
		mock.ExpectQuery(quoted(insertEnrollmentSQL)).
			WithArgs(int64(1), int64(2), date).
			WillReturnRows(pgxmock.NewRows(enrollmentColumns).AddRow(int64(1), int64(2), date, now, now))
		mock.ExpectCommit()

		created, err := repo.Enroll(context.Background(), enrollment)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.StudentID)
		assert.Equal(t, int64(2), created.SectionID)
		assert.Equal(t, date, created.EnrollmentDate)
		assert.Equal(t, now, created.CreatedAt)
	})

	tests := []struct {
		name   string
		expect func(mock pgxmock.PgxPoolIface)
		want   error
	}{
		{
			name: "missing section",
			expect: func(mock pgxmock.PgxPoolIface) {
				expectLockMissing(mock, 2)
			},
			want: ErrNotFound,
		},
		{
			name: "already enrolled",
			expect: func(mock pgxmock.PgxPoolIface) {
				expectLock(mock, 2, 3)
				expectEnrolled(mock, 1, 2, true)
			},
			want: ErrAlreadyEnrolled,
		},
		{
			name: "section full",
			expect: func(mock pgxmock.PgxPoolIface) {
				expectLock(mock, 2, 3)
				expectEnrolled(mock, 1, 2, false)
				expectCount(mock, 2, 3)
			},
			want: ErrSectionFull,
		},
		{
			name: "unique violation on insert",
			expect: func(mock pgxmock.PgxPoolIface) {
				expectLock(mock, 2, 3)
				expectEnrolled(mock, 1, 2, false)
				expectCount(mock, 2, 0)
				mock.ExpectQuery(quoted(insertEnrollmentSQL)).
					WithArgs(int64(1), int64(2), date).
					WillReturnError(pgError(dberrors.UniqueViolation))
			},
			want: ErrAlreadyEnrolled,
		},
		{
			name: "student removed before insert",
			expect: func(mock pgxmock.PgxPoolIface) {
				expectLock(mock, 2, 3)
				expectEnrolled(mock, 1, 2, false)
				expectCount(mock, 2, 0)
				mock.ExpectQuery(quoted(insertEnrollmentSQL)).
					WithArgs(int64(1), int64(2), date).
					WillReturnError(pgError(dberrors.ForeignKeyViolation))
			},
			want: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, database := newMockDB(t)
			repo := NewEnrollmentRepository(database)

			mock.ExpectBegin()
			tt.expect(mock)
			mock.ExpectRollback()

			created, err := repo.Enroll(context.Background(), enrollment)
			assert.Nil(t, created)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unexpected error is wrapped", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewEnrollmentRepository(database)
		boom := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectQuery(quoted(lockSectionSQL)).WithArgs(int64(2)).WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repo.Enroll(context.Background(), enrollment)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestEnrollmentRepository_Unenroll(t *testing.T) {
	const deleteSQL = "DELETE FROM student_sections WHERE student_id = $1 AND section_id = $2"

	t.Run("removes the link", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewEnrollmentRepository(database)

		mock.ExpectExec(quoted(deleteSQL)).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Unenroll(context.Background(), 1, 2))
	})

	t.Run("not enrolled", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewEnrollmentRepository(database)

		mock.ExpectExec(quoted(deleteSQL)).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Unenroll(context.Background(), 1, 2), ErrNotEnrolled)
	})
}
