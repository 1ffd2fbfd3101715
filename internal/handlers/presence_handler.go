package handlers

import (
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/presence"
	"github.com/labstack/echo/v4"
)

// PresenceHandler handles session lifecycle and heartbeat HTTP requests
type PresenceHandler struct {
	tracker *presence.Tracker
}

// NewPresenceHandler creates a new PresenceHandler
func NewPresenceHandler(tracker *presence.Tracker) *PresenceHandler {
	return &PresenceHandler{tracker: tracker}
}

// RegisterPresenceRoutes registers presence routes
func (h *PresenceHandler) RegisterPresenceRoutes(g *echo.Group) {
	g.POST("/presence/start", h.StartSession)
	g.POST("/presence/heartbeat", h.Heartbeat)
	g.POST("/presence/end", h.EndSession)
	g.GET("/presence/sessions", h.GetSessions)
}

// StartSession opens a session for the authenticated user
func (h *PresenceHandler) StartSession(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sessionID, err := h.tracker.StartSession(c.Request().Context(), currentUserID, req.Device)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"session_id": sessionID}})
}

// Heartbeat is called by the client on a fixed interval while foregrounded
func (h *PresenceHandler) Heartbeat(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.HeartbeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.tracker.Heartbeat(c.Request().Context(), currentUserID, req.SessionID, req.ElapsedMs); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// EndSession closes a session. Always succeeds from the client's point of
// view: a failed close must not block the logout flow that triggered it.
func (h *PresenceHandler) EndSession(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.EndSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.tracker.EndSession(c.Request().Context(), currentUserID, req.SessionID)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetSessions returns the authenticated user's recent session history
func (h *PresenceHandler) GetSessions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, err := h.tracker.RecentSessions(c.Request().Context(), currentUserID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"sessions": sessions}})
}
