// Package foods provides PostgreSQL-backed storage for food entries.
package foods

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthsync/internal/dbx"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

// PostgresRepository implements food entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores entry unless a row with the same id already exists, in
// which case the stored row is left untouched.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.FoodEntry) error {
	query := `
		INSERT INTO food_entries (id, name, calories, protein, carbs, fat, fiber, sugar, sodium,
			serving_size, meal_type, confidence, ai_generated, notes, image_url, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Name, entry.Calories, entry.Protein, entry.Carbs, entry.Fat,
		entry.Fiber, entry.Sugar, entry.Sodium, entry.ServingSize, entry.MealType,
		entry.Confidence, entry.AIGenerated, entry.Notes, entry.ImageURL, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert food entry %s: %w", entry.ID, err)
	}
	return nil
}

// SelectSince returns entries recorded strictly after horizon, newest first.
func (r *PostgresRepository) SelectSince(ctx context.Context, horizon int64) ([]*models.FoodEntry, error) {
	query := `
		SELECT id, name, calories, protein, carbs, fat, fiber, sugar, sodium,
			serving_size, meal_type, confidence, ai_generated, notes, image_url, recorded_at
		FROM food_entries
		WHERE recorded_at > $1
		ORDER BY recorded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to select food entries: %w", err)
	}
	defer rows.Close()

	result := []*models.FoodEntry{}
	for rows.Next() {
		var item models.FoodEntry
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Calories, &item.Protein, &item.Carbs, &item.Fat,
			&item.Fiber, &item.Sugar, &item.Sodium, &item.ServingSize, &item.MealType,
			&item.Confidence, &item.AIGenerated, &item.Notes, &item.ImageURL, &item.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
