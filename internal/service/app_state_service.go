package service

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/persist"
	"alcyxob/runrep/internal/repository"
	"context"
	"errors"
	"slices"
	"time"
)

// --- Error Definitions ---
var (
	ErrUnknownDay = errors.New("unknown workout day")
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// SystemClock is UTC wall time at millisecond precision, which is what survives
// a JSON round trip through ISO-8601 strings.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// --- Service Interface ---
type AppStateService interface {
	// State returns the document and whether it is still loading.
	State() (domain.AppState, bool)
	Ready() <-chan struct{}

	AddExerciseLog(ctx context.Context, input domain.ExerciseLogInput) domain.ExerciseLog
	MarkWorkoutComplete(ctx context.Context, day domain.WorkoutDay, exercisesCompleted []string) (domain.WorkoutCompletion, error)
	GetTodayCompletion(day domain.WorkoutDay) *domain.WorkoutCompletion
	GetExerciseLogs(exerciseID string) []domain.ExerciseLog
	GetAllStrengthLogs() []domain.ExerciseLog
	GetAllRunningLogs() []domain.ExerciseLog
	ToggleDeloadWeek(ctx context.Context) domain.WeeklyProgression
	IncrementWeek(ctx context.Context) domain.WeeklyProgression
	ResetAppState(ctx context.Context) domain.AppState

	Subscribe(fn func(domain.AppState)) (cancel func())
}

// --- Service Implementation ---

// appStateService implements AppStateService on top of one persisted store.
// Every mutation goes through the store's updater so it builds on the latest
// document, never on a stale copy.
type appStateService struct {
	store    *persist.Store[domain.AppState]
	defaults domain.AppState
	clock    Clock
	loc      *time.Location
}

// NewAppStateService wraps store. defaults is what ResetAppState restores; it
// is captured once so consecutive resets produce the same document. loc decides
// what "today" means for completions.
func NewAppStateService(store *persist.Store[domain.AppState], defaults domain.AppState, clock Clock, loc *time.Location) AppStateService {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &appStateService{
		store:    store,
		defaults: defaults,
		clock:    clock,
		loc:      loc,
	}
}

// NewAppStateStore builds the store for the app document with its default value.
func NewAppStateStore(backend repository.KeyValueRepository, bus *persist.Bus, defaults domain.AppState, opts ...persist.Option) *persist.Store[domain.AppState] {
	return persist.New(domain.AppStateKey, defaults, backend, bus, opts...)
}

func (s *appStateService) State() (domain.AppState, bool) {
	return s.store.Value()
}

func (s *appStateService) Ready() <-chan struct{} {
	return s.store.Ready()
}

func (s *appStateService) Subscribe(fn func(domain.AppState)) func() {
	return s.store.Subscribe(fn)
}

// AddExerciseLog appends a log stamped with the current time. Field
// combinations are not validated; the kind is inferred when not given.
func (s *appStateService) AddExerciseLog(ctx context.Context, input domain.ExerciseLogInput) domain.ExerciseLog {
	now := s.clock()
	entry := input.ToLog(now)
	s.store.Update(ctx, func(prev domain.AppState) domain.AppState {
		next := prev
		next.ExerciseLogs = append(slices.Clip(prev.ExerciseLogs), entry)
		next.LastSync = now
		return next
	})
	return entry
}

// MarkWorkoutComplete records today's completion for day. A completion already
// recorded for the same day on the same local date is replaced, and the new
// record goes to the end so the list stays chronological.
func (s *appStateService) MarkWorkoutComplete(ctx context.Context, day domain.WorkoutDay, exercisesCompleted []string) (domain.WorkoutCompletion, error) {
	if !day.Valid() {
		return domain.WorkoutCompletion{}, ErrUnknownDay
	}
	now := s.clock()
	ids := make([]string, 0, len(exercisesCompleted))
	for _, id := range exercisesCompleted {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	completion := domain.WorkoutCompletion{
		Day:                day,
		Date:               now,
		Completed:          true,
		ExercisesCompleted: ids,
	}
	s.store.Update(ctx, func(prev domain.AppState) domain.AppState {
		next := prev
		completions := make([]domain.WorkoutCompletion, 0, len(prev.WorkoutCompletions)+1)
		for _, c := range prev.WorkoutCompletions {
			if c.Day == day && sameLocalDate(c.Date, now, s.loc) {
				continue
			}
			completions = append(completions, c)
		}
		next.WorkoutCompletions = append(completions, completion)
		next.LastSync = now
		return next
	})
	return completion, nil
}

// GetTodayCompletion returns the completion for day dated today, or nil.
func (s *appStateService) GetTodayCompletion(day domain.WorkoutDay) *domain.WorkoutCompletion {
	state, _ := s.store.Value()
	now := s.clock()
	for i := range state.WorkoutCompletions {
		c := state.WorkoutCompletions[i]
		if c.Day == day && sameLocalDate(c.Date, now, s.loc) {
			return &c
		}
	}
	return nil
}

// GetExerciseLogs returns the logs for one exercise, newest first.
func (s *appStateService) GetExerciseLogs(exerciseID string) []domain.ExerciseLog {
	return s.filterLogs(func(l domain.ExerciseLog) bool { return l.ExerciseID == exerciseID })
}

func (s *appStateService) GetAllStrengthLogs() []domain.ExerciseLog {
	return s.filterLogs(func(l domain.ExerciseLog) bool { return l.Classify() == domain.LogStrength })
}

func (s *appStateService) GetAllRunningLogs() []domain.ExerciseLog {
	return s.filterLogs(func(l domain.ExerciseLog) bool { return l.Classify() == domain.LogRunning })
}

// ToggleDeloadWeek flips the deload flag without touching the week number.
func (s *appStateService) ToggleDeloadWeek(ctx context.Context) domain.WeeklyProgression {
	now := s.clock()
	next := s.store.Update(ctx, func(prev domain.AppState) domain.AppState {
		next := prev
		next.WeeklyProgression.IsDeloadWeek = !prev.WeeklyProgression.IsDeloadWeek
		next.LastSync = now
		return next
	})
	return next.WeeklyProgression
}

// IncrementWeek starts the next week. The deload flag is recomputed from the
// new week number, so a manual toggle made during the week does not carry over.
func (s *appStateService) IncrementWeek(ctx context.Context) domain.WeeklyProgression {
	now := s.clock()
	next := s.store.Update(ctx, func(prev domain.AppState) domain.AppState {
		next := prev
		week := prev.WeeklyProgression.WeekNumber + 1
		next.WeeklyProgression = domain.WeeklyProgression{
			WeekNumber:   week,
			StartDate:    now,
			IsDeloadWeek: domain.IsDeloadWeekNumber(week),
		}
		next.LastSync = now
		return next
	})
	return next.WeeklyProgression
}

// ResetAppState replaces the whole document with the defaults.
func (s *appStateService) ResetAppState(ctx context.Context) domain.AppState {
	return s.store.Set(ctx, s.defaults)
}

func (s *appStateService) filterLogs(keep func(domain.ExerciseLog) bool) []domain.ExerciseLog {
	state, _ := s.store.Value()
	out := make([]domain.ExerciseLog, 0)
	for _, l := range state.ExerciseLogs {
		if keep(l) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ExerciseLog) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

func sameLocalDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
