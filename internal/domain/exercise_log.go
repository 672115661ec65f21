// internal/domain/exercise_log.go
package domain

import "time"

// LogKind tags an exercise log so strength and running history never have to be
// guessed from which optional fields happen to be set.
type LogKind string

const (
	LogStrength LogKind = "strength"
	LogRunning  LogKind = "running"
	LogGeneral  LogKind = "general"
)

// Valid reports whether k is a known kind.
func (k LogKind) Valid() bool {
	switch k {
	case LogStrength, LogRunning, LogGeneral:
		return true
	}
	return false
}

// InferLogKind classifies a log that carries no explicit kind.
// Weight wins over distance/pace so a log is never counted twice.
func InferLogKind(weight, distance, pace *float64) LogKind {
	switch {
	case weight != nil:
		return LogStrength
	case distance != nil || pace != nil:
		return LogRunning
	default:
		return LogGeneral
	}
}

// ExerciseLog is a user-entered performance record against one plan exercise.
type ExerciseLog struct {
	ExerciseID string    `json:"exerciseId"` // Foreign key into the static plan
	Date       time.Time `json:"date"`
	Kind       LogKind   `json:"kind,omitempty"`
	Weight     *float64  `json:"weight,omitempty"` // kg
	Sets       *int      `json:"sets,omitempty"`
	Reps       *int      `json:"reps,omitempty"`
	Distance   *float64  `json:"distance,omitempty"` // km
	Duration   *float64  `json:"duration,omitempty"` // minutes
	Pace       *float64  `json:"pace,omitempty"`     // min/km
	Notes      string    `json:"notes,omitempty"`
}

// Classify returns the explicit kind, or infers it for documents written
// before logs were tagged.
func (l ExerciseLog) Classify() LogKind {
	if l.Kind.Valid() {
		return l.Kind
	}
	return InferLogKind(l.Weight, l.Distance, l.Pace)
}

// ExerciseLogInput is an exercise log minus the date, which is stamped on append.
type ExerciseLogInput struct {
	ExerciseID string   `json:"exerciseId"`
	Kind       LogKind  `json:"kind,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Sets       *int     `json:"sets,omitempty"`
	Reps       *int     `json:"reps,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	Duration   *float64 `json:"duration,omitempty"`
	Pace       *float64 `json:"pace,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// ToLog stamps the input with date and resolves its kind.
func (in ExerciseLogInput) ToLog(date time.Time) ExerciseLog {
	kind := in.Kind
	if !kind.Valid() {
		kind = InferLogKind(in.Weight, in.Distance, in.Pace)
	}
	return ExerciseLog{
		ExerciseID: in.ExerciseID,
		Date:       date,
		Kind:       kind,
		Weight:     in.Weight,
		Sets:       in.Sets,
		Reps:       in.Reps,
		Distance:   in.Distance,
		Duration:   in.Duration,
		Pace:       in.Pace,
		Notes:      in.Notes,
	}
}
