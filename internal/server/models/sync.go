package models

// SyncBatch is the set of records a client pushes in one call, and the set
// returned by a pull. Every member may be empty.
type SyncBatch struct {
	UserProfile      *UserProfile      `json:"userProfile,omitempty"`
	FoodEntries      []*FoodEntry      `json:"foodEntries"`
	WorkoutEntries   []*WorkoutEntry   `json:"workoutEntries"`
	BiomarkerEntries []*BiomarkerEntry `json:"biomarkerEntries"`
	Goals            []*Goal           `json:"goals"`
}

// Entity type names used as keys in counts and failure reports.
const (
	KindUserProfile = "userProfile"
	KindFood        = "foodEntries"
	KindWorkout     = "workoutEntries"
	KindBiomarker   = "biomarkerEntries"
	KindGoal        = "goals"
)

// SyncCounts reports records processed per entity type.
type SyncCounts struct {
	UserProfile      int `json:"userProfile"`
	FoodEntries      int `json:"foodEntries"`
	WorkoutEntries   int `json:"workoutEntries"`
	BiomarkerEntries int `json:"biomarkerEntries"`
	Goals            int `json:"goals"`
}

// Counts returns per-type sizes of b.
func (b *SyncBatch) Counts() SyncCounts {
	c := SyncCounts{
		FoodEntries:      len(b.FoodEntries),
		WorkoutEntries:   len(b.WorkoutEntries),
		BiomarkerEntries: len(b.BiomarkerEntries),
		Goals:            len(b.Goals),
	}
	if b.UserProfile != nil {
		c.UserProfile = 1
	}
	return c
}

// PullResult is the outcome of a pull. Failures maps an entity type name to
// the reason it could not be fetched; those types are empty in Data.
type PullResult struct {
	Horizon  int64
	Data     SyncBatch
	Counts   SyncCounts
	Failures map[string]string
}

// TableReport describes one table in an inspection.
type TableReport struct {
	Count  int64            `json:"count"`
	Recent []map[string]any `json:"recent"`
	Error  string           `json:"error,omitempty"`
}

// Inspection is a diagnostic snapshot of a store.
type Inspection struct {
	ServerTime string
	Tables     map[string]*TableReport
}
