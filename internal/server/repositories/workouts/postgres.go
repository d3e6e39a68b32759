// Package workouts provides PostgreSQL-backed storage for workout entries.
package workouts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores entry with first-write-wins semantics. The exercise list is
// kept as opaque JSON text.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.WorkoutEntry) error {
	query := `
		INSERT INTO workout_entries (id, type, name, duration, calories_burned, intensity, notes, exercises, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Type, entry.Name, entry.Duration, entry.CaloriesBurned,
		entry.Intensity, entry.Notes, dbx.OpaqueText(entry.Exercises), entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert workout entry %s: %w", entry.ID, err)
	}
	return nil
}

// SelectSince returns entries recorded strictly after horizon, newest first.
func (r *PostgresRepository) SelectSince(ctx context.Context, horizon int64) ([]*models.WorkoutEntry, error) {
	query := `
		SELECT id, type, name, duration, calories_burned, intensity, notes, exercises, recorded_at
		FROM workout_entries
		WHERE recorded_at > $1
		ORDER BY recorded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to select workout entries: %w", err)
	}
	defer rows.Close()

	result := []*models.WorkoutEntry{}
	for rows.Next() {
		var (
			item      models.WorkoutEntry
			exercises sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Name, &item.Duration, &item.CaloriesBurned,
			&item.Intensity, &item.Notes, &exercises, &item.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan workout entry: %w", err)
		}
		item.Exercises = dbx.OpaqueJSON(ctx, exercises, "workout_entries", item.ID, "exercises")
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
