package api

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/service"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 25 * time.Second

// EventsHandler streams document and preference changes as server-sent events.
type EventsHandler struct {
	appState     service.AppStateService
	themeService service.ThemeService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(appState service.AppStateService, themeService service.ThemeService) *EventsHandler {
	return &EventsHandler{appState: appState, themeService: themeService}
}

// Stream godoc
// @Summary Follow changes
// @Description Sends the current state and theme, then every change. Events: state, theme, ping.
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	// Subscribers run on the writer's goroutine, so they only ever hand off the
	// newest value and never block.
	states := make(chan domain.AppState, 1)
	themes := make(chan domain.ThemeMode, 1)
	cancelState := h.appState.Subscribe(func(s domain.AppState) { offerLatest(states, s) })
	defer cancelState()
	cancelTheme := h.themeService.Subscribe(func(m domain.ThemeMode) { offerLatest(themes, m) })
	defer cancelTheme()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	state, _ := h.appState.State()
	c.SSEvent("state", state)
	c.SSEvent("theme", ThemeResponse{Theme: h.themeService.Theme()})
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case s := <-states:
			c.SSEvent("state", s)
		case m := <-themes:
			if !m.Valid() {
				m = domain.DefaultTheme
			}
			c.SSEvent("theme", ThemeResponse{Theme: m})
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
		}
		return true
	})
}

// offerLatest puts v in a one-slot channel, replacing whatever is waiting.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
