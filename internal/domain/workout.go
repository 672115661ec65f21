// internal/domain/workout.go
package domain

import "strings"

// WorkoutDay is one of the seven plan day keys.
type WorkoutDay string

const (
	Sunday    WorkoutDay = "sunday"
	Monday    WorkoutDay = "monday"
	Tuesday   WorkoutDay = "tuesday"
	Wednesday WorkoutDay = "wednesday"
	Thursday  WorkoutDay = "thursday"
	Friday    WorkoutDay = "friday"
	Saturday  WorkoutDay = "saturday"
)

// weekdays is indexed by time.Weekday (0 = Sunday).
var weekdays = [7]WorkoutDay{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Days returns the day keys in plan order, starting on Sunday.
func Days() []WorkoutDay {
	days := make([]WorkoutDay, len(weekdays))
	copy(days, weekdays[:])
	return days
}

// DayFromWeekday maps a time.Weekday index (0 = Sunday) to its day key.
func DayFromWeekday(index int) (WorkoutDay, bool) {
	if index < 0 || index >= len(weekdays) {
		return "", false
	}
	return weekdays[index], true
}

// ParseWorkoutDay accepts a day key in any case.
func ParseWorkoutDay(s string) (WorkoutDay, bool) {
	day := WorkoutDay(strings.ToLower(strings.TrimSpace(s)))
	return day, day.Valid()
}

// Valid reports whether d is one of the seven day keys.
func (d WorkoutDay) Valid() bool {
	for _, w := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Workout is one day of the static training plan.
type Workout struct {
	Day              WorkoutDay       `json:"day"`
	Title            string           `json:"title"` // e.g., "Heavy Lower Body", "Easy Run"
	PrimaryGoal      string           `json:"primaryGoal"`
	Sections         []WorkoutSection `json:"sections"`
	PostWorkoutNotes []string         `json:"postWorkoutNotes,omitempty"`
}

// ExerciseCount sums the exercises of every section.
func (w *Workout) ExerciseCount() int {
	n := 0
	for _, s := range w.Sections {
		n += len(s.Exercises)
	}
	return n
}

// Exercises flattens the sections in order.
func (w *Workout) Exercises() []Exercise {
	out := make([]Exercise, 0, w.ExerciseCount())
	for _, s := range w.Sections {
		out = append(out, s.Exercises...)
	}
	return out
}
