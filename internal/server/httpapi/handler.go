package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// decode reads the body, validates it against sch and unmarshals it into
// dst. It writes the error response itself and reports whether to go on.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, sch *jsonschema.Schema, dst any) bool {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := validateBody(sch, raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (s *HTTPServer) handleTest(w http.ResponseWriter, r *http.Request) {
	var req models.TestRequest
	if !s.decode(w, r, s.schemas.test, &req) {
		return
	}
	ctx := s.storeContext(r, req.ConnectionString)
	s.metrics.RecordProbe()

	version, err := s.probe.Test(ctx, req.Type, req.ConnectionString)
	if err != nil {
		writeError(w, statusFor(err, http.StatusBadRequest), "Connection failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.TestResponse{Success: true, Message: "Connection successful: " + version})
}

func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request) {
	var req models.SyncRequest
	if !s.decode(w, r, s.schemas.sync, &req) {
		return
	}
	ctx := s.storeContext(r, req.ConnectionString)

	counts, err := s.sync.Push(ctx, req.Type, req.ConnectionString, &req.Data)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), "Sync failed: "+err.Error())
		return
	}
	s.metrics.RecordPush(int64(counts.Total()))
	writeJSON(w, http.StatusOK, models.SyncResponse{
		Success:      true,
		Message:      fmt.Sprintf("Synchronized %d records", counts.Total()),
		SyncedCounts: counts,
	})
}

func (s *HTTPServer) handlePull(w http.ResponseWriter, r *http.Request) {
	var req models.PullRequest
	if !s.decode(w, r, s.schemas.pull, &req) {
		return
	}
	ctx := s.storeContext(r, req.ConnectionString)

	res, err := s.sync.Pull(ctx, req.Type, req.ConnectionString, req.LastSyncTimestamp)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), "Pull failed: "+err.Error())
		return
	}
	s.metrics.RecordPull(int64(res.Counts.Total()), len(res.Failures) > 0)

	msg := fmt.Sprintf("Pulled %d records", res.Counts.Total())
	if len(res.Failures) > 0 {
		kinds := make([]string, 0, len(res.Failures))
		for k := range res.Failures {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		msg += "; failed: " + strings.Join(kinds, ", ")
	}
	writeJSON(w, http.StatusOK, models.PullResponse{
		Success:    true,
		Message:    msg,
		PullCounts: res.Counts,
		PulledData: res.Data,
		Failures:   res.Failures,
	})
}

func (s *HTTPServer) handleInspect(w http.ResponseWriter, r *http.Request) {
	var req models.InspectRequest
	if !s.decode(w, r, s.schemas.inspect, &req) {
		return
	}
	ctx := s.storeContext(r, req.ConnectionString)
	s.metrics.RecordProbe()

	res, err := s.probe.Inspect(ctx, req.ConnectionString)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), "Inspect failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.InspectResponse{Success: true, ServerTime: res.ServerTime, Tables: res.Tables})
}
