package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/db"
)

// managedTables lists every table the schema creates, dependents first.
var managedTables = []string{
	"student_groups",
	"student_courses",
	"groups",
	"courses",
	"students",
	"schema_migrations",
}

// Migrator manages database migrations
type Migrator struct {
	store  *db.Store
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(store *db.Store, lgr zerolog.Logger) *Migrator {
	return &Migrator{
		store:  store,
		logger: lgr,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.store.DB().Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := m.store.DB().QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// versionOf extracts the version prefix, "001_init.sql" => "001"
func versionOf(filename string) string {
	return strings.SplitN(path.Base(filename), "_", 2)[0]
}

// applyFile executes one migration file and records it in the same transaction
func (m *Migrator) applyFile(ctx context.Context, fsys fs.FS, filename string) error {
	version := versionOf(filename)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", filename, err)
	}

	err = m.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", filename, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
			version, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("file", filename).Str("version", version).Msg("Migration applied")
	return nil
}

// Migrate applies, in lexical order, every *.sql file at the root of fsys
// that has not been applied yet.
func (m *Migrator) Migrate(ctx context.Context, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	for _, file := range sqlFiles {
		if err := m.applyFile(ctx, fsys, file); err != nil {
			return err
		}
	}

	return nil
}

// DropAll removes every table owned by the schema, including migration history.
func (m *Migrator) DropAll(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS " + strings.Join(managedTables, ", ") + " CASCADE"
	if _, err := m.store.DB().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	m.logger.Info().Strs("tables", managedTables).Msg("All tables dropped")
	return nil
}
