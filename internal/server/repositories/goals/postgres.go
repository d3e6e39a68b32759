// Package goals provides PostgreSQL-backed storage for user goals.
package goals

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

// Upsert inserts goal, or for an existing id updates title, description,
// progress and completion and stamps updated_at with now. Target value,
// type, unit, deadline, milestones and created_at keep their first values.
func (r *PostgresRepository) Upsert(ctx context.Context, goal *models.Goal, now int64) error {
	query := `
		INSERT INTO goals (id, type, title, description, target_value, current_value, unit,
			deadline, is_completed, milestones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			current_value = EXCLUDED.current_value,
			is_completed = EXCLUDED.is_completed,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		goal.ID, goal.Type, goal.Title, goal.Description, goal.TargetValue, goal.CurrentValue,
		goal.Unit, goal.Deadline, goal.IsCompleted, dbx.OpaqueText(goal.Milestones), goal.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("upsert goal %s: %w", goal.ID, err)
	}
	return nil
}

// SelectSince returns goals created strictly after horizon, newest first.
// Older goals are not returned even when updated recently.
func (r *PostgresRepository) SelectSince(ctx context.Context, horizon int64) ([]*models.Goal, error) {
	query := `
		SELECT id, type, title, description, target_value, current_value, unit,
			deadline, is_completed, milestones, created_at
		FROM goals
		WHERE created_at > $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to select goals: %w", err)
	}
	defer rows.Close()

	result := []*models.Goal{}
	for rows.Next() {
		var (
			item       models.Goal
			milestones sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Title, &item.Description, &item.TargetValue, &item.CurrentValue,
			&item.Unit, &item.Deadline, &item.IsCompleted, &milestones, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		item.Milestones = dbx.OpaqueJSON(ctx, milestones, "goals", item.ID, "milestones")
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
