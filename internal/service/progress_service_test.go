package service

import (
	"alcyxob/runrep/internal/domain"
	"context"
	"reflect"
	"testing"
	"time"
)

func TestSummaryCountsAndRecentActivity(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	progress := NewProgressService(appState, clock.Now, time.UTC)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		clock.Set(testStart.Add(time.Duration(i) * time.Minute))
		appState.AddExerciseLog(ctx, domain.ExerciseLogInput{ExerciseID: "sun-main-1", Reps: ptr(i)})
	}
	appState.MarkWorkoutComplete(ctx, domain.Tuesday, nil)

	got := progress.Summary()
	if got.TotalExercises != 12 || got.TotalWorkouts != 1 || got.CurrentWeek != 1 {
		t.Fatalf("summary totals = %+v", got)
	}
	if len(got.RecentLogs) != 10 {
		t.Fatalf("recent logs = %d, want 10", len(got.RecentLogs))
	}
	if *got.RecentLogs[0].Reps != 11 || *got.RecentLogs[9].Reps != 2 {
		t.Fatalf("recent logs not newest first: first=%d last=%d", *got.RecentLogs[0].Reps, *got.RecentLogs[9].Reps)
	}
	if len(got.RecentCompletions) != 1 {
		t.Fatalf("recent completions = %d, want 1", len(got.RecentCompletions))
	}
}

func TestStrengthSeriesOldestFirstWithNames(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	progress := NewProgressService(appState, clock.Now, time.UTC)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		clock.Set(testStart.Add(time.Duration(i) * time.Hour))
		appState.AddExerciseLog(ctx, domain.ExerciseLogInput{ExerciseID: "sun-main-1", Weight: ptr(float64(60 + i))})
	}

	series := progress.StrengthSeries()
	if len(series) != 20 {
		t.Fatalf("points = %d, want 20", len(series))
	}
	if *series[0].Weight != 65 || *series[19].Weight != 84 {
		t.Fatalf("series spans %v..%v, want 65..84", *series[0].Weight, *series[19].Weight)
	}
	if series[0].ExerciseName != "Back Squat" {
		t.Fatalf("name = %q, want Back Squat", series[0].ExerciseName)
	}
}

func TestRunningVolumeBucketsByWeek(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	progress := NewProgressService(appState, clock.Now, time.UTC)
	ctx := context.Background()

	runs := []struct {
		offset   time.Duration
		distance *float64
	}{
		{time.Hour, ptr(5.04)},
		{2 * 24 * time.Hour, ptr(3.03)},
		{8 * 24 * time.Hour, ptr(10.0)},
		{9 * 24 * time.Hour, nil},
		{15 * 24 * time.Hour, nil},
	}
	for _, r := range runs {
		clock.Set(testStart.Add(r.offset))
		appState.AddExerciseLog(ctx, domain.ExerciseLogInput{ExerciseID: "run", Kind: domain.LogRunning, Distance: r.distance})
	}

	want := []VolumePoint{
		{Week: "Week 1", WeekNumber: 1, Distance: 8.1},
		{Week: "Week 2", WeekNumber: 2, Distance: 10},
		{Week: "Week 3", WeekNumber: 3, Distance: 0},
	}
	if got := progress.RunningVolume(); !reflect.DeepEqual(got, want) {
		t.Fatalf("volume = %+v, want %+v", got, want)
	}
}

func TestPaceTrendSkipsRunsWithoutPace(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	progress := NewProgressService(appState, clock.Now, time.UTC)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		clock.Set(testStart.Add(time.Duration(i) * time.Hour))
		in := domain.ExerciseLogInput{ExerciseID: "run", Distance: ptr(5.0)}
		if i%2 == 0 {
			in.Pace = ptr(6.0 - float64(i)/100)
		}
		appState.AddExerciseLog(ctx, in)
	}

	trend := progress.PaceTrend()
	if len(trend) != 10 {
		t.Fatalf("points = %d, want 10", len(trend))
	}
	if !trend[0].Date.Before(trend[9].Date) {
		t.Fatal("trend is not oldest first")
	}
}

func TestWeekOverview(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	progress := NewProgressService(appState, clock.Now, time.UTC)

	appState.MarkWorkoutComplete(context.Background(), domain.Tuesday, []string{"x"})
	week := progress.WeekOverview()

	if len(week.Days) != 7 || week.WeekNumber != 1 {
		t.Fatalf("overview = %+v", week)
	}
	for _, d := range week.Days {
		if d.IsToday != (d.Day == domain.Tuesday) {
			t.Fatalf("%s isToday = %v", d.Day, d.IsToday)
		}
		if (d.Completion != nil) != (d.Day == domain.Tuesday) {
			t.Fatalf("%s completion = %+v", d.Day, d.Completion)
		}
		if d.ExerciseCount == 0 || d.Title == "" {
			t.Fatalf("%s missing plan details: %+v", d.Day, d)
		}
	}
}
