package api

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/plan"
	"alcyxob/runrep/internal/service"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StateHandler exposes the app document and its mutations.
type StateHandler struct {
	appState service.AppStateService
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(appState service.AppStateService) *StateHandler {
	return &StateHandler{appState: appState}
}

// --- DTOs for API ---

// AddLogRequest is a new exercise log. The server stamps the date.
type AddLogRequest struct {
	ExerciseID string         `json:"exerciseId" binding:"required"`
	Kind       domain.LogKind `json:"kind" binding:"omitempty,oneof=strength running general"`
	Weight     *float64       `json:"weight" binding:"omitempty,gte=0"`
	Sets       *int           `json:"sets" binding:"omitempty,gte=0"`
	Reps       *int           `json:"reps" binding:"omitempty,gte=0"`
	Distance   *float64       `json:"distance" binding:"omitempty,gte=0"`
	Duration   *float64       `json:"duration" binding:"omitempty,gte=0"`
	Pace       *float64       `json:"pace" binding:"omitempty,gte=0"`
	Notes      string         `json:"notes"`
}

func (r AddLogRequest) toInput() domain.ExerciseLogInput {
	return domain.ExerciseLogInput{
		ExerciseID: r.ExerciseID,
		Kind:       r.Kind,
		Weight:     r.Weight,
		Sets:       r.Sets,
		Reps:       r.Reps,
		Distance:   r.Distance,
		Duration:   r.Duration,
		Pace:       r.Pace,
		Notes:      strings.TrimSpace(r.Notes),
	}
}

// CompleteWorkoutRequest marks a day's workout done.
type CompleteWorkoutRequest struct {
	Day                string   `json:"day" binding:"required"`
	ExercisesCompleted []string `json:"exercisesCompleted"`
}

// --- Handler Methods ---

// GetState godoc
// @Summary Get the whole app document
// @Tags State
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.AppState
// @Failure 503 {object} gin.H "Still loading"
// @Router /state [get]
func (h *StateHandler) GetState(c *gin.Context) {
	state, _ := h.appState.State()
	c.JSON(http.StatusOK, state)
}

// ResetState godoc
// @Summary Erase all data
// @Description Replaces the document with the defaults.
// @Tags State
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.AppState
// @Router /state [delete]
func (h *StateHandler) ResetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.ResetAppState(c.Request.Context()))
}

// AddLog godoc
// @Summary Log an exercise
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param log body AddLogRequest true "Log entry"
// @Success 201 {object} domain.ExerciseLog
// @Failure 400 {object} gin.H "Invalid input"
// @Router /logs [post]
func (h *StateHandler) AddLog(c *gin.Context) {
	var req AddLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	entry := h.appState.AddExerciseLog(c.Request.Context(), req.toInput())
	c.JSON(http.StatusCreated, entry)
}

// GetLogs godoc
// @Summary Get logs for one exercise, newest first
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param exerciseId query string true "Exercise ID"
// @Success 200 {array} domain.ExerciseLog
// @Failure 400 {object} gin.H "Missing exerciseId"
// @Router /logs [get]
func (h *StateHandler) GetLogs(c *gin.Context) {
	exerciseID := c.Query("exerciseId")
	if exerciseID == "" {
		abortWithError(c, http.StatusBadRequest, "exerciseId query parameter is required")
		return
	}
	c.JSON(http.StatusOK, h.appState.GetExerciseLogs(exerciseID))
}

// GetStrengthLogs godoc
// @Summary Get all strength logs, newest first
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExerciseLog
// @Router /logs/strength [get]
func (h *StateHandler) GetStrengthLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.GetAllStrengthLogs())
}

// GetRunningLogs godoc
// @Summary Get all running logs, newest first
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExerciseLog
// @Router /logs/running [get]
func (h *StateHandler) GetRunningLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.GetAllRunningLogs())
}

// CompleteWorkout godoc
// @Summary Mark a day's workout complete
// @Description Replaces a completion already recorded for the same day today.
// @Tags Completions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param completion body CompleteWorkoutRequest true "Completion"
// @Success 201 {object} domain.WorkoutCompletion
// @Failure 400 {object} gin.H "Invalid input or unknown day"
// @Router /completions [post]
func (h *StateHandler) CompleteWorkout(c *gin.Context) {
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	day, ok := domain.ParseWorkoutDay(req.Day)
	if !ok {
		abortWithError(c, http.StatusBadRequest, service.ErrUnknownDay.Error())
		return
	}
	for _, id := range req.ExercisesCompleted {
		if _, exDay, found := plan.ExerciseByID(id); !found || exDay != day {
			abortWithError(c, http.StatusBadRequest, "Exercise '"+id+"' is not part of this day's workout")
			return
		}
	}

	completion, err := h.appState.MarkWorkoutComplete(c.Request.Context(), day, req.ExercisesCompleted)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDay) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record completion.")
		}
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// GetTodayCompletion godoc
// @Summary Get today's completion for a day
// @Tags Completions
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day name"
// @Success 200 {object} domain.WorkoutCompletion
// @Failure 404 {object} gin.H "Unknown day or not completed today"
// @Router /completions/today/{day} [get]
func (h *StateHandler) GetTodayCompletion(c *gin.Context) {
	day, ok := domain.ParseWorkoutDay(c.Param("day"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Unknown workout day.")
		return
	}
	completion := h.appState.GetTodayCompletion(day)
	if completion == nil {
		abortWithError(c, http.StatusNotFound, "No completion recorded today.")
		return
	}
	c.JSON(http.StatusOK, completion)
}

// ToggleDeload godoc
// @Summary Flip the deload flag of the current week
// @Tags Progression
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WeeklyProgression
// @Router /progression/deload [post]
func (h *StateHandler) ToggleDeload(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.ToggleDeloadWeek(c.Request.Context()))
}

// NextWeek godoc
// @Summary Start the next training week
// @Description Every 4th week is a deload week. A manual deload toggle does not carry over.
// @Tags Progression
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WeeklyProgression
// @Router /progression/next-week [post]
func (h *StateHandler) NextWeek(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.IncrementWeek(c.Request.Context()))
}
