package api

import (
	"alcyxob/runrep/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies the routes are wired to.
type Services struct {
	Auth     service.AuthService
	AppState service.AppStateService
	Progress service.ProgressService
	Theme    service.ThemeService
	Export   service.ExportService
	Clock    service.Clock
	Location *time.Location
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	planHandler := NewPlanHandler(services.Clock, services.Location)
	stateHandler := NewStateHandler(services.AppState)
	progressHandler := NewProgressHandler(services.Progress)
	exportHandler := NewExportHandler(services.Export)
	settingsHandler := NewSettingsHandler(services.Theme)
	eventsHandler := NewEventsHandler(services.AppState, services.Theme)

	authMiddleware := AuthMiddleware(services.Auth)
	loaded := RequireLoaded(services.AppState)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.GET("/status", authHandler.Status)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Static plan ---
		planGroup := protected.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.GET("/today", planHandler.GetToday)
			planGroup.GET("/notes", planHandler.GetNotes)
			planGroup.GET("/:day", planHandler.GetDay)
		}
		protected.GET("/exercises/:id", planHandler.GetExercise)

		// --- Settings ---
		protected.GET("/settings/theme", settingsHandler.GetTheme)
		protected.PUT("/settings/theme", settingsHandler.PutTheme)

		// --- App document ---
		// Nothing reads or writes the document before it is loaded.
		stateGroup := protected.Group("")
		stateGroup.Use(loaded)
		{
			stateGroup.GET("/state", stateHandler.GetState)
			stateGroup.DELETE("/state", stateHandler.ResetState)

			stateGroup.POST("/logs", stateHandler.AddLog)
			stateGroup.GET("/logs", stateHandler.GetLogs)
			stateGroup.GET("/logs/strength", stateHandler.GetStrengthLogs)
			stateGroup.GET("/logs/running", stateHandler.GetRunningLogs)

			stateGroup.POST("/completions", stateHandler.CompleteWorkout)
			stateGroup.GET("/completions/today/:day", stateHandler.GetTodayCompletion)

			stateGroup.POST("/progression/deload", stateHandler.ToggleDeload)
			stateGroup.POST("/progression/next-week", stateHandler.NextWeek)

			stateGroup.GET("/progress", progressHandler.GetSummary)
			stateGroup.GET("/progress/strength", progressHandler.GetStrength)
			stateGroup.GET("/progress/volume", progressHandler.GetVolume)
			stateGroup.GET("/progress/pace", progressHandler.GetPace)
			stateGroup.GET("/week", progressHandler.GetWeek)

			stateGroup.GET("/export", exportHandler.Download)
			stateGroup.POST("/export/share", exportHandler.Share)
			stateGroup.DELETE("/export/share", exportHandler.DeleteShare)

			stateGroup.GET("/events", eventsHandler.Stream)
		}
	}
}
