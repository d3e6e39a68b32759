package models

import "encoding/json"

// Goal is a user-defined target. TargetValue and CreatedAt are fixed by the
// first push; later pushes replace title, description, progress and
// completion.
type Goal struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Title        string          `json:"title"`
	Description  *string         `json:"description,omitempty"`
	TargetValue  float64         `json:"targetValue"`
	CurrentValue float64         `json:"currentValue"`
	Unit         *string         `json:"unit,omitempty"`
	Deadline     *int64          `json:"deadline,omitempty"`
	IsCompleted  bool            `json:"isCompleted"`
	Milestones   json.RawMessage `json:"milestones,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
}

// UserProfile holds demographics and preferences. UpdatedAt is assigned by
// the server whenever an existing profile is overwritten.
type UserProfile struct {
	ID            string          `json:"id"`
	Name          *string         `json:"name,omitempty"`
	Age           *int64          `json:"age,omitempty"`
	Gender        *string         `json:"gender,omitempty"`
	Height        *float64        `json:"height,omitempty"`
	Weight        *float64        `json:"weight,omitempty"`
	ActivityLevel *string         `json:"activityLevel,omitempty"`
	DietaryGoal   *string         `json:"dietaryGoal,omitempty"`
	Preferences   json.RawMessage `json:"preferences,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}
