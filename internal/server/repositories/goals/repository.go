package goals

import (
	"context"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, goal *models.Goal, now int64) error
	SelectSince(ctx context.Context, horizon int64) ([]*models.Goal, error)
}
