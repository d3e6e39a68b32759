package profiles

import (
	"context"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, profile *models.UserProfile, now int64) error
	SelectLatestSince(ctx context.Context, horizon int64) (*models.UserProfile, error)
}
