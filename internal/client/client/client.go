// Package client talks to the healthsync HTTP API.
//
// Transport failures are reported as ErrUnavailable; non-2xx replies are
// returned as *APIError carrying the status and the server's message.
package client

import (
	"context"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

type Client interface {
	Test(ctx context.Context, req *models.TestRequest) (*models.TestResponse, error)
	Sync(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error)
	Pull(ctx context.Context, req *models.PullRequest) (*models.PullResponse, error)
	Inspect(ctx context.Context, req *models.InspectRequest) (*models.InspectResponse, error)
}
