package workouts

import (
	"context"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, entry *models.WorkoutEntry) error
	SelectSince(ctx context.Context, horizon int64) ([]*models.WorkoutEntry, error)
}
