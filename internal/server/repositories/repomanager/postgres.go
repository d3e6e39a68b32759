// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and the schema bootstrap (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/server/migrations"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/biomarkers"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/foods"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/goals"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/healthsync/internal/server/repositories/workouts"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes the schema bootstrap hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Foods(db dbx.DBTX) foods.Repository {
	return foods.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Workouts(db dbx.DBTX) workouts.Repository {
	return workouts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Biomarkers(db dbx.DBTX) biomarkers.Repository {
	return biomarkers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Goals(db dbx.DBTX) goals.Repository {
	return goals.NewPostgresRepository(db)
}

// SchemaVersionTable holds the migration history of the healthsync schema,
// apart from any goose_db_version another application keeps in the same
// database.
const SchemaVersionTable = "healthsync_schema_version"

var schemaTables = []string{"user_profiles", "food_entries", "workout_entries", "biomarker_entries", "goals"}

// gooseUp is a seam for testing the goose provider run.
var gooseUp = func(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("session locker: %w", err)
	}
	return bootstrap(ctx, db, fsys, database.DialectPostgres, goose.WithSessionLocker(locker))
}

// bootstrap applies pending migrations from fsys. When the history says the
// schema is current but a table is gone, the history is cleared and the
// migrations, all IF NOT EXISTS, are replayed once.
func bootstrap(ctx context.Context, db *sql.DB, fsys fs.FS, dialect database.Dialect, opts ...goose.ProviderOption) error {
	store, err := database.NewStore(dialect, SchemaVersionTable)
	if err != nil {
		return fmt.Errorf("goose store: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectCustom, db, fsys, append(opts, goose.WithStore(store))...)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return err
	}

	if !missingTables(ctx, db) {
		return nil
	}
	for _, src := range provider.ListSources() {
		if err := store.Delete(ctx, db, src.Version); err != nil {
			return fmt.Errorf("reset schema history: %w", err)
		}
	}
	if _, err := provider.Up(ctx); err != nil {
		return err
	}
	return nil
}

func missingTables(ctx context.Context, db *sql.DB) bool {
	for _, t := range schemaTables {
		rows, err := db.QueryContext(ctx, "SELECT 1 FROM "+t+" LIMIT 0")
		if err != nil {
			return true
		}
		_ = rows.Close()
	}
	return false
}

// RunMigrations applies the embedded schema. Concurrent callers are
// serialized by a session advisory lock, so running it on an up-to-date
// store is a no-op.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return gooseUp(ctx, db, migrations.FS)
}
