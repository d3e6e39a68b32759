package models

// Request and response bodies of the /api/database endpoints.

type TestRequest struct {
	ConnectionString string `json:"connectionString"`
	Type             string `json:"type"`
}

type SyncRequest struct {
	ConnectionString string    `json:"connectionString"`
	Type             string    `json:"type"`
	Data             SyncBatch `json:"data"`
}

type PullRequest struct {
	ConnectionString  string `json:"connectionString"`
	Type              string `json:"type"`
	LastSyncTimestamp int64  `json:"lastSyncTimestamp"`
}

type InspectRequest struct {
	ConnectionString string `json:"connectionString"`
}

type TestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SyncResponse struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message"`
	SyncedCounts SyncCounts `json:"syncedCounts"`
}

type PullResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	PullCounts SyncCounts        `json:"pullCounts"`
	PulledData SyncBatch         `json:"pulledData"`
	Failures   map[string]string `json:"failures,omitempty"`
}

type InspectResponse struct {
	Success    bool                    `json:"success"`
	ServerTime string                  `json:"serverTime"`
	Tables     map[string]*TableReport `json:"tables"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Total sums all per-type counts.
func (c SyncCounts) Total() int {
	return c.UserProfile + c.FoodEntries + c.WorkoutEntries + c.BiomarkerEntries + c.Goals
}
