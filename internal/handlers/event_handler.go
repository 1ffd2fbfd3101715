package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// EventHandler handles family event HTTP requests
type EventHandler struct {
	eventRepository repositories.EventRepository
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventRepo repositories.EventRepository) *EventHandler {
	return &EventHandler{eventRepository: eventRepo}
}

// RegisterEventRoutes registers event routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.GetUpcomingEvents)
	g.GET("/events/:id", h.GetEvent)
	g.PUT("/events/:id/rsvp", h.RSVP)
	g.DELETE("/events/:id", h.DeleteEvent)
}

// CreateEvent creates an event hosted by the caller
func (h *EventHandler) CreateEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		GroupID:     req.GroupID,
		HostID:      currentUserID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := h.eventRepository.CreateEvent(c.Request().Context(), event); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

// GetUpcomingEvents lists events that have not started yet
func (h *EventHandler) GetUpcomingEvents(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	events, err := h.eventRepository.GetUpcomingEvents(c.Request().Context(), time.Now(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"events": events}})
}

// GetEvent retrieves an event by ID
func (h *EventHandler) GetEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	event, err := h.eventRepository.GetEventByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, event)
}

// RSVP records or replaces the caller's answer on an event
func (h *EventHandler) RSVP(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RSVPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rsvp := models.RSVP{
		UserID:    currentUserID,
		Status:    req.Status,
		UpdatedAt: time.Now(),
	}
	if err := h.eventRepository.SetRSVP(c.Request().Context(), c.Param("id"), rsvp); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteEvent deletes an event. Host only.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	event, err := h.eventRepository.GetEventByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if event.HostID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the host can delete an event")
	}

	if err := h.eventRepository.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
