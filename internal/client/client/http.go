package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

const (
	pathTest    = "/api/database/test"
	pathSync    = "/api/database/sync"
	pathPull    = "/api/database/pull"
	pathInspect = "/api/database/inspect"
)

// maxErrorBody bounds how much of a failed reply is read for its message.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Test(ctx context.Context, req *models.TestRequest) (*models.TestResponse, error) {
	resp := &models.TestResponse{}
	if err := c.post(ctx, pathTest, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) Sync(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error) {
	resp := &models.SyncResponse{}
	if err := c.post(ctx, pathSync, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) Pull(ctx context.Context, req *models.PullRequest) (*models.PullResponse, error) {
	resp := &models.PullResponse{}
	if err := c.post(ctx, pathPull, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) Inspect(ctx context.Context, req *models.InspectRequest) (*models.InspectResponse, error) {
	resp := &models.InspectResponse{}
	if err := c.post(ctx, pathInspect, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var e models.ErrorResponse
	if err := json.Unmarshal(raw, &e); err != nil || e.Error == "" {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
}

// IsClientError reports whether err is an APIError with a 4xx status.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
