package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMigrator(t *testing.T, files fstest.MapFS) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMigratorFS(db, files, zerolog.Nop()), mock
}

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"002_sections.sql": {Data: []byte("CREATE TABLE sections (id BIGSERIAL);")},
		"001_roles.sql":    {Data: []byte("CREATE TABLE roles (id BIGSERIAL);")},
		"README.md":        {Data: []byte("not a migration")},
	}
}

func TestMigrationsAreSortedAndVersioned(t *testing.T) {
	m, _ := newMockMigrator(t, testFiles())

	migrations, err := m.Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "001_roles.sql", migrations[0].Name)
	assert.Equal(t, "002", migrations[1].Version)
}

func TestEmbeddedMigrationsAreReadable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations, err := NewMigrator(db, zerolog.Nop()).Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS roles")
	assert.Contains(t, migrations[1].SQL, "student_sections")
}

func TestMigrateAppliesPendingOnly(t *testing.T) {
	m, mock := newMockMigrator(t, testFiles())

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("002").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE sections`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("002").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	applied, err := m.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackFailedMigration(t *testing.T) {
	m, mock := newMockMigrator(t, fstest.MapFS{
		"001_roles.sql": {Data: []byte("CREATE TABLE roles (id BIGSERIAL);")},
	})

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE roles`).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	applied, err := m.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_roles.sql")
	assert.Equal(t, 0, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFailsWithoutTrackingTable(t *testing.T) {
	m, mock := newMockMigrator(t, testFiles())

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnError(errors.New("permission denied"))

	_, err := m.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration tracking table")
	assert.NoError(t, mock.ExpectationsWereMet())
}
