package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrijs2005/healthsync/internal/common"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
)

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write json response", "err", err)
	}
}

// statusFor maps a service error to an HTTP status. storeStatus is used for
// connection and statement failures, which the connection test reports as
// client errors and the sync endpoints as server errors.
func statusFor(err error, storeStatus int) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnsupportedStore):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConnection), errors.Is(err, common.ErrStatement), errors.Is(err, common.ErrBootstrap):
		return storeStatus
	default:
		return http.StatusInternalServerError
	}
}
