package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/db"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
)

const (
	lockSectionSQL      = "SELECT max_capacity FROM sections WHERE id = $1 FOR UPDATE"
	countEnrollmentsSQL = "SELECT COUNT(*) FROM student_sections WHERE section_id = $1"
)

// newMockDB wires a pgxmock pool behind the data layer and checks every
// expectation was consumed once the test ends
func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *db.PostgresDB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return mock, db.NewFromPool(mock)
}

func quoted(statement string) string {
	return regexp.QuoteMeta(statement)
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func sectionRows() *pgxmock.Rows {
	return pgxmock.NewRows(sectionColumns)
}

func expectLock(mock pgxmock.PgxPoolIface, sectionID int64, maxCapacity int) {
	mock.ExpectQuery(quoted(lockSectionSQL)).
		WithArgs(sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"max_capacity"}).AddRow(maxCapacity))
}

func expectLockMissing(mock pgxmock.PgxPoolIface, sectionID int64) {
	mock.ExpectQuery(quoted(lockSectionSQL)).
		WithArgs(sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"max_capacity"}))
}

func expectCount(mock pgxmock.PgxPoolIface, sectionID int64, count int) {
	mock.ExpectQuery(quoted(countEnrollmentsSQL)).
		WithArgs(sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
}

func TestSectionRepository_Update(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	name := "Algebra II"
	capacity := 2

	t.Run("clears description", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 7, 10)
		mock.ExpectQuery(quoted("UPDATE sections SET description = $1, updated_at = NOW() WHERE id = $2 RETURNING id, name, description, max_capacity, created_at, updated_at")).
			WithArgs(nil, int64(7)).
			WillReturnRows(sectionRows().AddRow(int64(7), "Algebra", (*string)(nil), 10, now, now))
		mock.ExpectCommit()

		section, err := repo.Update(context.Background(), 7, models.SectionUpdate{ClearDescription: true})
		require.NoError(t, err)
		assert.Equal(t, int64(7), section.ID)
		assert.Nil(t, section.Description)
	})

	t.Run("capacity below enrollment", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 7, 10)
		expectCount(mock, 7, 3)
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), 7, models.SectionUpdate{MaxCapacity: &capacity})
		assert.ErrorIs(t, err, ErrCapacityBelowEnrollment)
	})

	t.Run("capacity equal to enrollment is allowed", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 7, 10)
		expectCount(mock, 7, 2)
		mock.ExpectQuery(quoted("UPDATE sections SET max_capacity = $1, updated_at = NOW() WHERE id = $2")).
			WithArgs(capacity, int64(7)).
			WillReturnRows(sectionRows().AddRow(int64(7), "Algebra", (*string)(nil), capacity, now, now))
		mock.ExpectCommit()

		section, err := repo.Update(context.Background(), 7, models.SectionUpdate{MaxCapacity: &capacity})
		require.NoError(t, err)
		assert.Equal(t, capacity, section.MaxCapacity)
	})

	t.Run("missing section", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLockMissing(mock, 7)
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), 7, models.SectionUpdate{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 7, 10)
		mock.ExpectQuery(quoted("UPDATE sections SET name = $1, updated_at = NOW() WHERE id = $2")).
			WithArgs(name, int64(7)).
			WillReturnError(pgError(dberrors.UniqueViolation))
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), 7, models.SectionUpdate{Name: &name})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestSectionRepository_Delete(t *testing.T) {
	t.Run("empty section is deleted", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 4, 25)
		expectCount(mock, 4, 0)
		mock.ExpectExec(quoted("DELETE FROM sections WHERE id = $1")).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), 4))
	})

	t.Run("section with enrollments", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLock(mock, 4, 25)
		expectCount(mock, 4, 1)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrSectionHasEnrollments)
	})

	t.Run("missing section", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectBegin()
		expectLockMissing(mock, 4)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrNotFound)
	})
}

func TestSectionRepository_Available(t *testing.T) {
	const freeSeats = "LEFT JOIN (SELECT section_id, COUNT(*) AS student_count FROM student_sections GROUP BY section_id) c ON c.section_id = s.id " +
		"WHERE (c.student_count IS NULL OR c.student_count < s.max_capacity)"
	now := time.Now().UTC()

	t.Run("list", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectQuery(quoted("FROM sections s " + freeSeats + " ORDER BY s.name DESC, s.id ASC LIMIT 10")).
			WillReturnRows(sectionRows().
				AddRow(int64(2), "Physics", (*string)(nil), 20, now, now).
				AddRow(int64(1), "Art", (*string)(nil), 5, now, now))

		sections, err := repo.ListAvailable(context.Background(), ListParams{SortBy: "name", Order: SortDesc, Limit: 10})
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, "Physics", sections[0].Name)
	})

	t.Run("count", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectQuery(quoted("SELECT COUNT(*) FROM sections s " + freeSeats)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

		total, err := repo.CountAvailable(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestSectionRepository_Search(t *testing.T) {
	mock, database := newMockDB(t)
	repo := NewSectionRepository(database)

	mock.ExpectQuery(quoted("FROM sections s WHERE (s.name ILIKE $1 OR s.description ILIKE $2) ORDER BY s.id ASC LIMIT 10")).
		WithArgs(`%100\%%`, `%100\%%`).
		WillReturnRows(sectionRows())

	sections, err := repo.Search(context.Background(), "100%", ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestSectionRepository_CountStudentsBySections(t *testing.T) {
	t.Run("no ids runs no query", func(t *testing.T) {
		_, database := newMockDB(t)
		repo := NewSectionRepository(database)

		counts, err := repo.CountStudentsBySections(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("sections without enrollments are absent", func(t *testing.T) {
		mock, database := newMockDB(t)
		repo := NewSectionRepository(database)

		mock.ExpectQuery(quoted("SELECT section_id, COUNT(*) FROM student_sections WHERE section_id IN ($1,$2,$3) GROUP BY section_id")).
			WithArgs(int64(1), int64(2), int64(3)).
			WillReturnRows(pgxmock.NewRows([]string{"section_id", "count"}).
				AddRow(int64(1), 2).
				AddRow(int64(3), 1))

		counts, err := repo.CountStudentsBySections(context.Background(), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, map[int64]int{1: 2, 3: 1}, counts)
	})
}
