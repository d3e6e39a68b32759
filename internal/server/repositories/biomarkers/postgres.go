// Package biomarkers provides PostgreSQL-backed storage for biomarker readings.
package biomarkers

import (
	"context"
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

func (r *PostgresRepository) Insert(ctx context.Context, entry *models.BiomarkerEntry) error {
	query := `
		INSERT INTO biomarker_entries (id, type, value, unit, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Type, entry.Value, entry.Unit, entry.Notes, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert biomarker entry %s: %w", entry.ID, err)
	}
	return nil
}

func (r *PostgresRepository) SelectSince(ctx context.Context, horizon int64) ([]*models.BiomarkerEntry, error) {
	query := `
		SELECT id, type, value, unit, notes, recorded_at
		FROM biomarker_entries
		WHERE recorded_at > $1
		ORDER BY recorded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to select biomarker entries: %w", err)
	}
	defer rows.Close()

	result := []*models.BiomarkerEntry{}
	for rows.Next() {
		var item models.BiomarkerEntry
		if err := rows.Scan(&item.ID, &item.Type, &item.Value, &item.Unit, &item.Notes, &item.Timestamp); err != nil {
			return nil, fmt.Errorf("scan biomarker entry: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
