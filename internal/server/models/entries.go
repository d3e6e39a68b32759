// Package models defines the health records exchanged with clients and
// persisted in the user's store. JSON names match the client wire format;
// all times are epoch milliseconds.
package models

import "encoding/json"

// FoodEntry is one logged meal or snack. Optional fields are nil when absent.
type FoodEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       *float64 `json:"fiber,omitempty"`
	Sugar       *float64 `json:"sugar,omitempty"`
	Sodium      *float64 `json:"sodium,omitempty"`
	ServingSize *string  `json:"servingSize,omitempty"`
	MealType    *string  `json:"mealType,omitempty"`
	// Confidence is the recognizer's confidence in [0, 1] for AI-generated entries.
	Confidence  *float64 `json:"confidence,omitempty"`
	AIGenerated *bool    `json:"aiGenerated,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}

// WorkoutEntry is one training session. Exercises is stored verbatim.
type WorkoutEntry struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Name           *string         `json:"name,omitempty"`
	Duration       float64         `json:"duration"`
	CaloriesBurned float64         `json:"caloriesBurned"`
	Intensity      *string         `json:"intensity,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Exercises      json.RawMessage `json:"exercises,omitempty"`
	Timestamp      int64           `json:"timestamp"`
}

type BiomarkerEntry struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Notes     *string `json:"notes,omitempty"`
	Timestamp int64   `json:"timestamp"`
}
