package plan

import (
	"alcyxob/runrep/internal/domain"
	"testing"
	"time"
)

func TestWorkoutByDaySunday(t *testing.T) {
	w := WorkoutByDay(domain.Sunday)
	if w == nil {
		t.Fatal("expected sunday workout")
	}
	if w.Title != "Heavy Lower Body" {
		t.Fatalf("title = %q, want %q", w.Title, "Heavy Lower Body")
	}
	want := 0
	for _, s := range w.Sections {
		want += len(s.Exercises)
	}
	if got := len(w.Exercises()); got != want {
		t.Fatalf("flattened exercises = %d, want %d", got, want)
	}
	if w.ExerciseCount() != 12 {
		t.Fatalf("exercise count = %d, want 12", w.ExerciseCount())
	}
}

func TestWorkoutByDayUnknown(t *testing.T) {
	if w := WorkoutByDay(domain.WorkoutDay("xyz")); w != nil {
		t.Fatalf("expected nil for unknown day, got %+v", w)
	}
}

func TestEveryDayHasAWorkout(t *testing.T) {
	days := AllDaysInOrder()
	if len(days) != 7 {
		t.Fatalf("days = %d, want 7", len(days))
	}
	if days[0] != domain.Sunday || days[6] != domain.Saturday {
		t.Fatalf("unexpected order: %v", days)
	}
	all := All()
	for i, day := range days {
		if all[i].Day != day {
			t.Fatalf("plan[%d].Day = %q, want %q", i, all[i].Day, day)
		}
		if WorkoutByDay(day) == nil {
			t.Fatalf("missing workout for %s", day)
		}
	}
}

func TestExerciseIDsAreUnique(t *testing.T) {
	seen := map[string]domain.WorkoutDay{}
	for _, w := range All() {
		for _, ex := range w.Exercises() {
			if prev, ok := seen[ex.ID]; ok {
				t.Fatalf("exercise %q on %s already used on %s", ex.ID, w.Day, prev)
			}
			seen[ex.ID] = w.Day
		}
	}
}

func TestTodaysWorkout(t *testing.T) {
	// 2026-10-13 is a Tuesday.
	now := time.Date(2026, time.October, 13, 9, 0, 0, 0, time.UTC)
	w := TodaysWorkout(now)
	if w == nil || w.Day != domain.Tuesday {
		t.Fatalf("today's workout = %+v, want tuesday", w)
	}
}

func TestExerciseByID(t *testing.T) {
	ex, day, ok := ExerciseByID("thu-main-1")
	if !ok {
		t.Fatal("expected bench press")
	}
	if ex.Name != "Barbell Bench Press" || day != domain.Thursday {
		t.Fatalf("got %q on %s", ex.Name, day)
	}
	if _, _, ok := ExerciseByID("nope"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestNotesReturnsCopy(t *testing.T) {
	n := Notes()
	n.TargetAudience[0] = "changed"
	if Notes().TargetAudience[0] == "changed" {
		t.Fatal("notes leaked internal slice")
	}
}
