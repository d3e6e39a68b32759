// Package profiles provides PostgreSQL-backed storage for user profiles.
package profiles

import (
	"context"
	"database/sql"
	"errors"
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

// Upsert inserts profile or overwrites every mutable field of an existing
// one. A new row keeps the client's updatedAt (now when unset); an
// overwritten row gets updated_at = now. created_at is never changed.
func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.UserProfile, now int64) error {
	query := `
		INSERT INTO user_profiles (id, name, age, gender, height, weight, activity_level,
			dietary_goal, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			activity_level = EXCLUDED.activity_level,
			dietary_goal = EXCLUDED.dietary_goal,
			preferences = EXCLUDED.preferences,
			updated_at = $12
	`
	updatedAt := profile.UpdatedAt
	if updatedAt == 0 {
		updatedAt = now
	}
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Age, profile.Gender, profile.Height, profile.Weight,
		profile.ActivityLevel, profile.DietaryGoal, dbx.OpaqueText(profile.Preferences),
		profile.CreatedAt, updatedAt, now)
	if err != nil {
		return fmt.Errorf("upsert user profile %s: %w", profile.ID, err)
	}
	return nil
}

// SelectLatestSince returns the most recently updated profile with
// updated_at strictly after horizon, or nil when there is none.
func (r *PostgresRepository) SelectLatestSince(ctx context.Context, horizon int64) (*models.UserProfile, error) {
	query := `
		SELECT id, name, age, gender, height, weight, activity_level,
			dietary_goal, preferences, created_at, updated_at
		FROM user_profiles
		WHERE updated_at > $1
		ORDER BY updated_at DESC
		LIMIT 1
	`
	var (
		item        models.UserProfile
		preferences sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, horizon).Scan(
		&item.ID, &item.Name, &item.Age, &item.Gender, &item.Height, &item.Weight,
		&item.ActivityLevel, &item.DietaryGoal, &preferences, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user profile: %w", err)
	}
	item.Preferences = dbx.OpaqueJSON(ctx, preferences, "user_profiles", item.ID, "preferences")
	return &item, nil
}
