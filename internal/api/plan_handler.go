package api

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/plan"
	"alcyxob/runrep/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the static training plan.
type PlanHandler struct {
	clock service.Clock
	loc   *time.Location
}

// NewPlanHandler creates a new PlanHandler. clock and loc decide today's workout.
func NewPlanHandler(clock service.Clock, loc *time.Location) *PlanHandler {
	if clock == nil {
		clock = service.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &PlanHandler{clock: clock, loc: loc}
}

// ExerciseResponse is one plan exercise together with the day it belongs to.
type ExerciseResponse struct {
	Day      domain.WorkoutDay `json:"day"`
	Exercise domain.Exercise   `json:"exercise"`
}

// GetPlan godoc
// @Summary Get the whole week
// @Tags Plan
// @Produce json
// @Success 200 {array} domain.Workout
// @Router /plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	c.JSON(http.StatusOK, plan.All())
}

// GetToday godoc
// @Summary Get today's workout
// @Tags Plan
// @Produce json
// @Success 200 {object} domain.Workout
// @Router /plan/today [get]
func (h *PlanHandler) GetToday(c *gin.Context) {
	c.JSON(http.StatusOK, plan.TodaysWorkout(h.clock().In(h.loc)))
}

// GetNotes godoc
// @Summary Get program notes
// @Tags Plan
// @Produce json
// @Success 200 {object} plan.ProgramNotes
// @Router /plan/notes [get]
func (h *PlanHandler) GetNotes(c *gin.Context) {
	c.JSON(http.StatusOK, plan.Notes())
}

// GetDay godoc
// @Summary Get one day's workout
// @Tags Plan
// @Produce json
// @Param day path string true "Day name, e.g. sunday"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Unknown day"
// @Router /plan/{day} [get]
func (h *PlanHandler) GetDay(c *gin.Context) {
	day, ok := domain.ParseWorkoutDay(c.Param("day"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Unknown workout day.")
		return
	}
	workout := plan.WorkoutByDay(day)
	if workout == nil {
		abortWithError(c, http.StatusNotFound, "No workout planned for this day.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// GetExercise godoc
// @Summary Look up a plan exercise by ID
// @Tags Plan
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Unknown exercise"
// @Router /exercises/{id} [get]
func (h *PlanHandler) GetExercise(c *gin.Context) {
	exercise, day, ok := plan.ExerciseByID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Exercise not found in plan.")
		return
	}
	c.JSON(http.StatusOK, ExerciseResponse{Day: day, Exercise: *exercise})
}
