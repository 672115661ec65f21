// internal/domain/exercise.go
package domain

// ExerciseType tags an exercise in the plan.
type ExerciseType string

const (
	ExerciseStrength  ExerciseType = "strength"
	ExerciseCardio    ExerciseType = "cardio"
	ExerciseWarmup    ExerciseType = "warmup"
	ExerciseCore      ExerciseType = "core"
	ExerciseAccessory ExerciseType = "accessory"
)

// Exercise represents a single prescribed exercise in the static training plan.
// Prescriptions are free text because the plan uses ranges ("8-10", "15/leg")
// and relative loads ("85-90% 1RM").
type Exercise struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      ExerciseType `json:"type"`
	Sets      int          `json:"sets,omitempty"`
	Reps      string       `json:"reps,omitempty"`
	Weight    string       `json:"weight,omitempty"`
	Rest      string       `json:"rest,omitempty"`
	Duration  string       `json:"duration,omitempty"`  // For cardio
	Intensity string       `json:"intensity,omitempty"` // For cardio
	Notes     string       `json:"notes,omitempty"`
}

// WorkoutSection groups exercises under a heading ("Warm-up", "Main Lifts").
type WorkoutSection struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Exercises   []Exercise `json:"exercises"`
}
