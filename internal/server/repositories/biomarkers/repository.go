package biomarkers

import (
	"context"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, entry *models.BiomarkerEntry) error
	SelectSince(ctx context.Context, horizon int64) ([]*models.BiomarkerEntry, error)
}
