// Package plan holds the static weekly training plan. The table is built once
// and never changes at runtime; accessors hand out copies of the lookup result.
package plan

import (
	"alcyxob/runrep/internal/domain"
	"time"
)

// ProgramNotes is the guidance shown next to the plan.
type ProgramNotes struct {
	WeeklyProgression ProgressionNotes `json:"weeklyProgression"`
	Recovery          RecoveryNotes    `json:"recovery"`
	TargetAudience    []string         `json:"targetAudience"`
}

type ProgressionNotes struct {
	Strength string `json:"strength"`
	Running  string `json:"running"`
	Deload   string `json:"deload"`
}

type RecoveryNotes struct {
	Sleep      string `json:"sleep"`
	Protein    string `json:"protein"`
	CarbTiming string `json:"carbTiming"`
	Mobility   string `json:"mobility"`
}

// All returns the whole week in plan order (Sunday first).
func All() []domain.Workout {
	out := make([]domain.Workout, len(trainingPlan))
	copy(out, trainingPlan)
	return out
}

// AllDaysInOrder returns the seven day keys, Sunday first.
func AllDaysInOrder() []domain.WorkoutDay {
	return domain.Days()
}

// WorkoutByDay returns the workout for day, or nil for an unknown key.
func WorkoutByDay(day domain.WorkoutDay) *domain.Workout {
	for i := range trainingPlan {
		if trainingPlan[i].Day == day {
			w := trainingPlan[i]
			return &w
		}
	}
	return nil
}

// TodaysWorkout picks the workout for the local weekday of now.
func TodaysWorkout(now time.Time) *domain.Workout {
	day, ok := domain.DayFromWeekday(int(now.Weekday()))
	if !ok {
		return nil
	}
	return WorkoutByDay(day)
}

// ExerciseByID finds a plan exercise and the day it belongs to.
func ExerciseByID(id string) (*domain.Exercise, domain.WorkoutDay, bool) {
	for _, w := range trainingPlan {
		for _, s := range w.Sections {
			for i := range s.Exercises {
				if s.Exercises[i].ID == id {
					ex := s.Exercises[i]
					return &ex, w.Day, true
				}
			}
		}
	}
	return nil, "", false
}

// Notes returns the program notes.
func Notes() ProgramNotes {
	n := programNotes
	n.TargetAudience = append([]string(nil), programNotes.TargetAudience...)
	return n
}

var programNotes = ProgramNotes{
	WeeklyProgression: ProgressionNotes{
		Strength: "Add 2.5 kg every 1-2 weeks if all sets feel solid",
		Running:  "Increase weekly volume by max 10%",
		Deload:   "Every 4th week → reduce volume by 40-50%",
	},
	Recovery: RecoveryNotes{
		Sleep:      "7-9 hours",
		Protein:    "1.8-2.2 g/kg",
		CarbTiming: "Higher on Sunday & Friday",
		Mobility:   "Daily mobility = non-negotiable",
	},
	TargetAudience: []string{
		"Intermediate–Advanced lifters",
		"Runners lifting seriously",
		"Hybrid / tactical / endurance athletes",
	},
}

var trainingPlan = []domain.Workout{
	{
		Day:         domain.Sunday,
		Title:       "Heavy Lower Body",
		PrimaryGoal: "Max strength + posterior chain power",
		Sections: []domain.WorkoutSection{
			{
				Title:       "Warm-up",
				Description: "12-15 min",
				Exercises: []domain.Exercise{
					{ID: "sun-wu-1", Name: "Easy row or jog", Type: domain.ExerciseWarmup, Duration: "5 min"},
					{ID: "sun-wu-2", Name: "Hip mobility (90/90, hip flexor stretch)", Type: domain.ExerciseWarmup},
					{ID: "sun-wu-3", Name: "Glute bridges", Type: domain.ExerciseWarmup, Sets: 2, Reps: "15"},
					{ID: "sun-wu-4", Name: "Bodyweight squats", Type: domain.ExerciseWarmup, Sets: 2, Reps: "15"},
				},
			},
			{
				Title: "Main Lifts",
				Exercises: []domain.Exercise{
					{ID: "sun-main-1", Name: "Back Squat", Type: domain.ExerciseStrength, Sets: 5, Reps: "3", Weight: "85-90% 1RM", Rest: "3-4 min"},
					{ID: "sun-main-2", Name: "Paused Squat", Type: domain.ExerciseStrength, Sets: 3, Reps: "4", Weight: "70%", Notes: "2s pause"},
					{ID: "sun-main-3", Name: "Romanian Deadlift", Type: domain.ExerciseStrength, Sets: 4, Reps: "6", Weight: "heavy"},
				},
			},
			{
				Title: "Accessories",
				Exercises: []domain.Exercise{
					{ID: "sun-acc-1", Name: "Bulgarian Split Squat", Type: domain.ExerciseAccessory, Sets: 3, Reps: "8/leg"},
					{ID: "sun-acc-2", Name: "Hamstring Curl (machine/Nordic)", Type: domain.ExerciseAccessory, Sets: 3, Reps: "8-10"},
					{ID: "sun-acc-3", Name: "Standing Calf Raises", Type: domain.ExerciseAccessory, Sets: 4, Reps: "12-15"},
				},
			},
			{
				Title: "Core",
				Exercises: []domain.Exercise{
					{ID: "sun-core-1", Name: "Hanging Leg Raises", Type: domain.ExerciseCore, Sets: 3, Reps: "12"},
					{ID: "sun-core-2", Name: "Pallof Press", Type: domain.ExerciseCore, Sets: 3, Reps: "12/side"},
				},
			},
		},
	},
	{
		Day:         domain.Monday,
		Title:       "Easy Run",
		PrimaryGoal: "Recovery + Blood Flow",
		Sections: []domain.WorkoutSection{
			{
				Title: "Main Run",
				Exercises: []domain.Exercise{
					{ID: "mon-run-1", Name: "Easy Conversational Run", Type: domain.ExerciseCardio, Duration: "30-45 min", Intensity: "Zone 1-low Zone 2", Notes: "Keep HR < 70% max. Focus on relaxed cadence & breathing"},
					{ID: "mon-run-2", Name: "Relaxed Strides", Type: domain.ExerciseCardio, Sets: 4, Duration: "20s", Notes: "Optional"},
				},
			},
			{
				Title:       "Post-Run Mobility",
				Description: "10 min",
				Exercises: []domain.Exercise{
					{ID: "mon-mob-1", Name: "Ankles, calves, hips, hamstrings mobility", Type: domain.ExerciseWarmup},
				},
			},
		},
	},
	{
		Day:         domain.Tuesday,
		Title:       "Pull Workout",
		PrimaryGoal: "Back thickness + pulling power",
		Sections: []domain.WorkoutSection{
			{
				Title: "Warm-up",
				Exercises: []domain.Exercise{
					{ID: "tue-wu-1", Name: "Band pull-aparts", Type: domain.ExerciseWarmup, Sets: 2, Reps: "20"},
					{ID: "tue-wu-2", Name: "Scapular pull-ups", Type: domain.ExerciseWarmup, Sets: 2, Reps: "10"},
				},
			},
			{
				Title: "Main Lifts",
				Exercises: []domain.Exercise{
					{ID: "tue-main-1", Name: "Weighted Pull-ups", Type: domain.ExerciseStrength, Sets: 5, Reps: "5"},
					{ID: "tue-main-2", Name: "Barbell Row", Type: domain.ExerciseStrength, Sets: 4, Reps: "6-8"},
					{ID: "tue-main-3", Name: "Chest-Supported Dumbbell Row", Type: domain.ExerciseStrength, Sets: 3, Reps: "10"},
				},
			},
			{
				Title: "Accessories",
				Exercises: []domain.Exercise{
					{ID: "tue-acc-1", Name: "Lat Pulldown (slow eccentric)", Type: domain.ExerciseAccessory, Sets: 3, Reps: "10"},
					{ID: "tue-acc-2", Name: "Face Pulls", Type: domain.ExerciseAccessory, Sets: 3, Reps: "15"},
					{ID: "tue-acc-3", Name: "Rear Delt Fly", Type: domain.ExerciseAccessory, Sets: 3, Reps: "15"},
				},
			},
			{
				Title: "Arms",
				Exercises: []domain.Exercise{
					{ID: "tue-arm-1", Name: "Barbell Curl", Type: domain.ExerciseAccessory, Sets: 3, Reps: "8"},
					{ID: "tue-arm-2", Name: "Hammer Curl", Type: domain.ExerciseAccessory, Sets: 3, Reps: "12"},
				},
			},
		},
	},
	{
		Day:         domain.Wednesday,
		Title:       "Zone 2 Run",
		PrimaryGoal: "Aerobic Base",
		Sections: []domain.WorkoutSection{
			{
				Title: "Main Run",
				Exercises: []domain.Exercise{
					{ID: "wed-run-1", Name: "Zone 2 Run", Type: domain.ExerciseCardio, Duration: "45-60 min", Intensity: "Zone 2 (comfortable but steady)", Notes: "Nose breathing preferred. HR ~ 70-75% max. Flat terrain"},
				},
			},
			{
				Title: "Optional Add-on",
				Exercises: []domain.Exercise{
					{ID: "wed-sprint-1", Name: "Hill Sprints", Type: domain.ExerciseCardio, Sets: 6, Duration: "10s", Notes: "Full recovery between sprints"},
				},
			},
		},
	},
	{
		Day:         domain.Thursday,
		Title:       "Push Workout",
		PrimaryGoal: "Upper-body hypertrophy & pressing strength",
		Sections: []domain.WorkoutSection{
			{
				Title: "Warm-up",
				Exercises: []domain.Exercise{
					{ID: "thu-wu-1", Name: "Shoulder CARs", Type: domain.ExerciseWarmup},
					{ID: "thu-wu-2", Name: "Band external rotations", Type: domain.ExerciseWarmup, Sets: 2, Reps: "15"},
				},
			},
			{
				Title: "Main Lifts",
				Exercises: []domain.Exercise{
					{ID: "thu-main-1", Name: "Barbell Bench Press", Type: domain.ExerciseStrength, Sets: 5, Reps: "5", Weight: "80-85%"},
					{ID: "thu-main-2", Name: "Overhead Press", Type: domain.ExerciseStrength, Sets: 4, Reps: "6"},
					{ID: "thu-main-3", Name: "Incline Dumbbell Press", Type: domain.ExerciseStrength, Sets: 3, Reps: "8-10"},
				},
			},
			{
				Title: "Accessories",
				Exercises: []domain.Exercise{
					{ID: "thu-acc-1", Name: "Lateral Raises", Type: domain.ExerciseAccessory, Sets: 4, Reps: "12-15"},
					{ID: "thu-acc-2", Name: "Cable Fly (slow stretch)", Type: domain.ExerciseAccessory, Sets: 3, Reps: "12"},
					{ID: "thu-acc-3", Name: "Dips (weighted if possible)", Type: domain.ExerciseAccessory, Sets: 3, Reps: "8-10"},
				},
			},
			{
				Title: "Triceps",
				Exercises: []domain.Exercise{
					{ID: "thu-tri-1", Name: "Skull Crushers", Type: domain.ExerciseAccessory, Sets: 3, Reps: "10"},
					{ID: "thu-tri-2", Name: "Rope Pushdowns", Type: domain.ExerciseAccessory, Sets: 3, Reps: "12-15"},
				},
			},
		},
	},
	{
		Day:         domain.Friday,
		Title:       "Speed Session",
		PrimaryGoal: "Speed + lactate threshold",
		Sections: []domain.WorkoutSection{
			{
				Title:       "Option A - Threshold Run",
				Description: "Rotate with Option B weekly",
				Exercises: []domain.Exercise{
					{ID: "fri-optA-wu", Name: "Warm-up", Type: domain.ExerciseWarmup, Duration: "10 min"},
					{ID: "fri-optA-main", Name: "Threshold Run", Type: domain.ExerciseCardio, Sets: 3, Duration: "10 min", Intensity: "comfortably hard pace", Rest: "3 min easy jog between"},
					{ID: "fri-optA-cd", Name: "Cooldown", Type: domain.ExerciseWarmup, Duration: "10 min"},
				},
			},
			{
				Title:       "Option B - Intervals",
				Description: "Rotate with Option A weekly",
				Exercises: []domain.Exercise{
					{ID: "fri-optB-wu", Name: "Warm-up", Type: domain.ExerciseWarmup, Duration: "10 min"},
					{ID: "fri-optB-main", Name: "800m Intervals", Type: domain.ExerciseCardio, Sets: 6, Intensity: "5K pace", Rest: "2-3 min jog recovery"},
					{ID: "fri-optB-cd", Name: "Cooldown", Type: domain.ExerciseWarmup, Duration: "10 min"},
				},
			},
		},
	},
	{
		Day:         domain.Saturday,
		Title:       "Flex / Recovery",
		PrimaryGoal: "Active recovery or additional volume",
		Sections: []domain.WorkoutSection{
			{
				Title:       "Choose ONE",
				Description: "Based on recovery status",
				Exercises: []domain.Exercise{
					{ID: "sat-opt-1", Name: "Easy Recovery Jog", Type: domain.ExerciseCardio, Duration: "20-30 min", Intensity: "Very easy"},
					{ID: "sat-opt-2", Name: "Complete Rest + Mobility", Type: domain.ExerciseWarmup},
				},
			},
			{
				Title: "Optional Arm Pump Session",
				Exercises: []domain.Exercise{
					{ID: "sat-arm-1", Name: "EZ Curl", Type: domain.ExerciseAccessory, Sets: 4, Reps: "12"},
					{ID: "sat-arm-2", Name: "Cable Curl", Type: domain.ExerciseAccessory, Sets: 3, Reps: "15"},
					{ID: "sat-arm-3", Name: "Tricep Pushdown", Type: domain.ExerciseAccessory, Sets: 4, Reps: "12"},
					{ID: "sat-arm-4", Name: "Overhead Tricep Extension", Type: domain.ExerciseAccessory, Sets: 3, Reps: "15"},
				},
			},
		},
	},
}
