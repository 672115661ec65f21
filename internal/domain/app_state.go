// internal/domain/app_state.go
package domain

import "time"

// AppStateKey is the storage key of the single app document.
const AppStateKey = "fitness-app-state"

// DeloadInterval is the nominal cadence of deload weeks.
const DeloadInterval = 4

// WorkoutCompletion records that a day's session was finished.
type WorkoutCompletion struct {
	Day                WorkoutDay `json:"day"`
	Date               time.Time  `json:"date"`
	Completed          bool       `json:"completed"`
	ExercisesCompleted []string   `json:"exercisesCompleted"` // Exercise IDs
}

// WeeklyProgression tracks the training week and deload state.
type WeeklyProgression struct {
	WeekNumber   int       `json:"weekNumber"`
	StartDate    time.Time `json:"startDate"`
	IsDeloadWeek bool      `json:"isDeloadWeek"`
}

// AppState is the whole persisted document, one per installation.
// Slices are only ever replaced, never mutated in place, so values can be
// shared between readers without copying.
type AppState struct {
	ExerciseLogs       []ExerciseLog       `json:"exerciseLogs"`
	WorkoutCompletions []WorkoutCompletion `json:"workoutCompletions"`
	WeeklyProgression  WeeklyProgression   `json:"weeklyProgression"`
	LastSync           time.Time           `json:"lastSync"`
}

// DefaultAppState builds the document used before anything is persisted.
func DefaultAppState(now time.Time) AppState {
	return AppState{
		ExerciseLogs:       []ExerciseLog{},
		WorkoutCompletions: []WorkoutCompletion{},
		WeeklyProgression: WeeklyProgression{
			WeekNumber:   1,
			StartDate:    now,
			IsDeloadWeek: false,
		},
		LastSync: now,
	}
}

// IsDeloadWeekNumber reports whether week falls on the deload cadence.
func IsDeloadWeekNumber(week int) bool {
	return week%DeloadInterval == 0
}
