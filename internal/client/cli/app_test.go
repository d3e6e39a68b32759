package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/healthsync/internal/client/config"
	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path string
	body map[string]any
}

func fakeServer(t *testing.T, status int, reply any) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, recorded{path: r.URL.Path, body: body})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func run(t *testing.T, env map[string]string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(func(k string) string { return env[k] })
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootHelp(t *testing.T) {
	out, _, err := run(t, nil, "", "--help")
	require.NoError(t, err)
	for _, sub := range []string{"test", "push", "pull", "inspect"} {
		assert.Contains(t, out, sub)
	}
}

func TestTestCommand(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, models.TestResponse{Success: true, Message: "Connection successful"})

	out, _, err := run(t, nil, "", "test", "--server", srv.URL, "--connection-string", "postgres://h/db")
	require.NoError(t, err)
	assert.Equal(t, "Connection successful\n", out)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, "/api/database/test", got.path)
	assert.Equal(t, "postgres://h/db", got.body["connectionString"])
	assert.Equal(t, "postgresql", got.body["type"])
}

func TestTestCommand_EnvConnectionString(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, models.TestResponse{Success: true, Message: "ok"})

	_, _, err := run(t, map[string]string{
		config.ServerEnv:           srv.URL,
		config.ConnectionStringEnv: "postgresql://env/db",
	}, "", "test")
	require.NoError(t, err)
	assert.Equal(t, "postgresql://env/db", (*calls)[0].body["connectionString"])
}

func TestTestCommand_PromptsForConnectionString(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, models.TestResponse{Success: true, Message: "ok"})

	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("  postgres://prompted/db\n"), nil }

	_, errOut, err := run(t, nil, "", "test", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Connection string:")
	assert.Equal(t, "postgres://prompted/db", (*calls)[0].body["connectionString"])
}

func TestPrompt_Errors(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err := PromptConnectionString(io.Discard)
	require.ErrorContains(t, err, "no tty")

	readPassword = func(int) ([]byte, error) { return []byte("   "), nil }
	_, err = PromptConnectionString(io.Discard)
	require.ErrorIs(t, err, errEmptyConnectionString)
}

func TestTestCommand_ServerError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusBadRequest, models.ErrorResponse{Error: "Connection failed: refused"})

	_, _, err := run(t, nil, "", "test", "--server", srv.URL, "--connection-string", "postgres://h/db")
	require.ErrorContains(t, err, "Connection failed: refused")
}

func TestPushCommand_FromStdin(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, models.SyncResponse{
		Success:      true,
		Message:      "Synced 1 records",
		SyncedCounts: models.SyncCounts{FoodEntries: 1},
	})

	batch := `{"foodEntries":[{"id":"f1","name":"Apple","calories":95,"protein":0.5,"carbs":25,"fat":0.3,"timestamp":1700000000000}]}`
	out, _, err := run(t, nil, batch, "push", "--server", srv.URL, "--connection-string", "postgres://h/db")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced 1 records")
	assert.Contains(t, out, "food=1")

	data := (*calls)[0].body["data"].(map[string]any)
	foods := data["foodEntries"].([]any)
	require.Len(t, foods, 1)
	assert.Equal(t, "Apple", foods[0].(map[string]any)["name"])
}

func TestPushCommand_BadFile(t *testing.T) {
	_, _, err := run(t, nil, "", "push", "--file", filepath.Join(t.TempDir(), "nope.json"), "--connection-string", "x")
	require.ErrorContains(t, err, "read")

	_, _, err = run(t, nil, "{", "push", "--connection-string", "x")
	require.ErrorContains(t, err, "parse")
}

func pullReply() models.PullResponse {
	return models.PullResponse{
		Success:    true,
		Message:    "Pulled 1 records",
		PullCounts: models.SyncCounts{BiomarkerEntries: 1},
		PulledData: models.SyncBatch{
			FoodEntries:      []*models.FoodEntry{},
			WorkoutEntries:   []*models.WorkoutEntry{},
			BiomarkerEntries: []*models.BiomarkerEntry{{ID: "b1", Type: "weight", Value: 70, Unit: "kg", Timestamp: 5}},
			Goals:            []*models.Goal{},
		},
		Failures: map[string]string{models.KindGoal: "relation missing"},
	}
}

func TestPullCommand_Stdout(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, pullReply())

	out, errOut, err := run(t, nil, "", "pull", "--server", srv.URL, "--connection-string", "postgres://h/db", "--since", "1700000000000")
	require.NoError(t, err)

	var got models.SyncBatch
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.BiomarkerEntries, 1)
	assert.Equal(t, "b1", got.BiomarkerEntries[0].ID)

	assert.Contains(t, errOut, "Pulled 1 records")
	assert.Contains(t, errOut, "failed goals: relation missing")
	assert.EqualValues(t, 1700000000000, (*calls)[0].body["lastSyncTimestamp"])
}

func TestPullCommand_ToFile(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, pullReply())
	path := filepath.Join(t.TempDir(), "out", "pulled.json")

	out, _, err := run(t, nil, "", "pull", "--server", srv.URL, "--connection-string", "postgres://h/db", "-o", path, "--since", "2023-11-14T22:13:20Z")
	require.NoError(t, err)
	assert.Contains(t, out, "since 2023-11-14T22:13:20Z")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got models.SyncBatch
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got.BiomarkerEntries, 1)
}

func TestPullCommand_BadSince(t *testing.T) {
	_, _, err := run(t, nil, "", "pull", "--connection-string", "x", "--since", "yesterday")
	require.ErrorContains(t, err, "invalid --since")

	_, _, err = run(t, nil, "", "pull", "--connection-string", "x", "--since", "-5")
	require.ErrorContains(t, err, "must not be negative")
}

func TestInspectCommand(t *testing.T) {
	srv, calls := fakeServer(t, http.StatusOK, models.InspectResponse{
		Success:    true,
		ServerTime: "2024-01-01T00:00:00Z",
		Tables: map[string]*models.TableReport{
			"food_entries": {Count: 2, Recent: []map[string]any{{"id": "f1"}, {"id": "f2"}}},
			"goals":        {Error: "relation \"goals\" does not exist"},
		},
	})

	out, _, err := run(t, nil, "", "inspect", "--server", srv.URL, "--connection-string", "postgres://h/db")
	require.NoError(t, err)
	assert.Contains(t, out, "server time: 2024-01-01T00:00:00Z")
	assert.Contains(t, out, "2 rows, 2 recent")
	assert.Contains(t, out, `error: relation "goals" does not exist`)
	_, hasType := (*calls)[0].body["type"]
	assert.False(t, hasType)

	out, _, err = run(t, nil, "", "inspect", "--json", "--server", srv.URL, "--connection-string", "postgres://h/db")
	require.NoError(t, err)
	var resp models.InspectResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.EqualValues(t, 2, resp.Tables["food_entries"].Count)
}

func TestBadTimeout(t *testing.T) {
	_, _, err := run(t, nil, "", "test", "--timeout", "soon", "--connection-string", "x")
	require.ErrorContains(t, err, "invalid --timeout")
}
