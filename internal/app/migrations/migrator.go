package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

// Migration is one forward-only SQL file
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Migrator manages database migrations
type Migrator struct {
	db     *sql.DB
	files  fs.FS
	logger zerolog.Logger
}

// NewMigrator creates a migrator over the migrations compiled into the binary
func NewMigrator(db *sql.DB, lgr zerolog.Logger) *Migrator {
	files, err := fs.Sub(embeddedMigrations, "sql")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return NewMigratorFS(db, files, lgr)
}

// NewMigratorFS creates a migrator reading *.sql files from the root of files
func NewMigratorFS(db *sql.DB, files fs.FS, lgr zerolog.Logger) *Migrator {
	return &Migrator{db: db, files: files, logger: lgr}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Migrations lists the available migrations ordered by file name
func (m *Migrator) Migrations() ([]Migration, error) {
	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		// "001_init.sql" => "001"
		version, _, _ := strings.Cut(path.Base(name), "_")
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}
	return migrations, nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		return fmt.Errorf("migration %s failed: %w", migration.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, migration.Version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Name, err)
	}
	return nil
}

// Migrate applies every migration not yet recorded, in order, and returns how many ran
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return 0, err
	}

	migrations, err := m.Migrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, migration := range migrations {
		done, err := m.isMigrationApplied(ctx, migration.Version)
		if err != nil {
			return applied, err
		}
		if done {
			m.logger.Debug().Str("migration", migration.Name).Msg("Migration already applied, skipping")
			continue
		}

		if err := m.apply(ctx, migration); err != nil {
			return applied, err
		}
		applied++
		m.logger.Info().Str("migration", migration.Name).Msg("Migration applied")
	}
	return applied, nil
}
