package service

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/plan"
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	strengthSeriesLimit    = 20
	paceTrendLimit         = 15
	recentCompletionsLimit = 5
	recentLogsLimit        = 10
)

// ProgressSummary holds the headline totals and recent activity.
type ProgressSummary struct {
	TotalWorkouts     int                        `json:"totalWorkouts"`
	TotalExercises    int                        `json:"totalExercises"`
	CurrentWeek       int                        `json:"currentWeek"`
	IsDeloadWeek      bool                       `json:"isDeloadWeek"`
	RecentCompletions []domain.WorkoutCompletion `json:"recentCompletions"` // Newest first
	RecentLogs        []domain.ExerciseLog       `json:"recentLogs"`        // Newest first
}

// StrengthPoint is one strength log on the progression chart.
type StrengthPoint struct {
	Date         time.Time `json:"date"`
	ExerciseID   string    `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName,omitempty"`
	Weight       *float64  `json:"weight,omitempty"`
	Reps         *int      `json:"reps,omitempty"`
}

// VolumePoint is the total running distance of one training week.
type VolumePoint struct {
	Week       string  `json:"week"`
	WeekNumber int     `json:"weekNumber"`
	Distance   float64 `json:"distance"` // km, one decimal
}

// PacePoint is one running log with a pace.
type PacePoint struct {
	Date       time.Time `json:"date"`
	ExerciseID string    `json:"exerciseId"`
	Pace       float64   `json:"pace"`
}

// DayOverview summarizes one plan day for the week screen.
type DayOverview struct {
	Day           domain.WorkoutDay         `json:"day"`
	Title         string                    `json:"title"`
	PrimaryGoal   string                    `json:"primaryGoal"`
	ExerciseCount int                       `json:"exerciseCount"`
	IsToday       bool                      `json:"isToday"`
	Completion    *domain.WorkoutCompletion `json:"completion,omitempty"`
}

// WeekOverview is the current week with every plan day.
type WeekOverview struct {
	WeekNumber   int           `json:"weekNumber"`
	IsDeloadWeek bool          `json:"isDeloadWeek"`
	Days         []DayOverview `json:"days"`
}

// ProgressService derives read-only views from the app document.
type ProgressService interface {
	Summary() ProgressSummary
	StrengthSeries() []StrengthPoint
	RunningVolume() []VolumePoint
	PaceTrend() []PacePoint
	WeekOverview() WeekOverview
}

type progressService struct {
	appState AppStateService
	clock    Clock
	loc      *time.Location
}

// NewProgressService creates a new ProgressService.
func NewProgressService(appState AppStateService, clock Clock, loc *time.Location) ProgressService {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &progressService{appState: appState, clock: clock, loc: loc}
}

func (s *progressService) Summary() ProgressSummary {
	state, _ := s.appState.State()

	completions := lastReversed(state.WorkoutCompletions, recentCompletionsLimit)
	logs := lastReversed(state.ExerciseLogs, recentLogsLimit)

	return ProgressSummary{
		TotalWorkouts:     len(state.WorkoutCompletions),
		TotalExercises:    len(state.ExerciseLogs),
		CurrentWeek:       state.WeeklyProgression.WeekNumber,
		IsDeloadWeek:      state.WeeklyProgression.IsDeloadWeek,
		RecentCompletions: completions,
		RecentLogs:        logs,
	}
}

// StrengthSeries returns the most recent strength logs, oldest first.
func (s *progressService) StrengthSeries() []StrengthPoint {
	logs := s.appState.GetAllStrengthLogs()
	if len(logs) > strengthSeriesLimit {
		logs = logs[:strengthSeriesLimit]
	}
	points := make([]StrengthPoint, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		p := StrengthPoint{Date: l.Date, ExerciseID: l.ExerciseID, Weight: l.Weight, Reps: l.Reps}
		if ex, _, ok := plan.ExerciseByID(l.ExerciseID); ok {
			p.ExerciseName = ex.Name
		}
		points = append(points, p)
	}
	return points
}

// RunningVolume buckets running distance into weeks counted from the current
// week's start date. Logs older than the start date land in week 0 or below.
func (s *progressService) RunningVolume() []VolumePoint {
	state, _ := s.appState.State()
	start := state.WeeklyProgression.StartDate

	totals := make(map[int]float64)
	for _, l := range s.appState.GetAllRunningLogs() {
		week := int(math.Floor(l.Date.Sub(start).Hours()/(7*24))) + 1
		// A run without a distance still opens its week.
		var distance float64
		if l.Distance != nil {
			distance = *l.Distance
		}
		totals[week] += distance
	}

	points := make([]VolumePoint, 0, len(totals))
	for week, distance := range totals {
		points = append(points, VolumePoint{
			Week:       fmt.Sprintf("Week %d", week),
			WeekNumber: week,
			Distance:   math.Round(distance*10) / 10,
		})
	}
	slices.SortFunc(points, func(a, b VolumePoint) int { return a.WeekNumber - b.WeekNumber })
	return points
}

// PaceTrend returns the most recent paced running logs, oldest first.
func (s *progressService) PaceTrend() []PacePoint {
	var paced []domain.ExerciseLog
	for _, l := range s.appState.GetAllRunningLogs() {
		if l.Pace != nil && *l.Pace != 0 {
			paced = append(paced, l)
		}
	}
	if len(paced) > paceTrendLimit {
		paced = paced[:paceTrendLimit]
	}
	points := make([]PacePoint, 0, len(paced))
	for i := len(paced) - 1; i >= 0; i-- {
		points = append(points, PacePoint{Date: paced[i].Date, ExerciseID: paced[i].ExerciseID, Pace: *paced[i].Pace})
	}
	return points
}

func (s *progressService) WeekOverview() WeekOverview {
	state, _ := s.appState.State()
	now := s.clock().In(s.loc)
	today, _ := domain.DayFromWeekday(int(now.Weekday()))

	overview := WeekOverview{
		WeekNumber:   state.WeeklyProgression.WeekNumber,
		IsDeloadWeek: state.WeeklyProgression.IsDeloadWeek,
		Days:         make([]DayOverview, 0, 7),
	}
	for _, day := range plan.AllDaysInOrder() {
		w := plan.WorkoutByDay(day)
		if w == nil {
			continue
		}
		overview.Days = append(overview.Days, DayOverview{
			Day:           day,
			Title:         w.Title,
			PrimaryGoal:   w.PrimaryGoal,
			ExerciseCount: w.ExerciseCount(),
			IsToday:       day == today,
			Completion:    s.appState.GetTodayCompletion(day),
		})
	}
	return overview
}

// lastReversed returns up to n trailing elements of items, newest first.
func lastReversed[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.Reverse(out)
	return out
}
