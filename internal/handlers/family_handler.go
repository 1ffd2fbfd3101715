package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FamilyHandler handles family link request HTTP requests
type FamilyHandler struct {
	familyRepository repositories.FamilyRepository
	userRepository   repositories.UserRepository
	fanout           *notify.Fanout
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyRepo repositories.FamilyRepository, userRepo repositories.UserRepository, fanout *notify.Fanout) *FamilyHandler {
	return &FamilyHandler{
		familyRepository: familyRepo,
		userRepository:   userRepo,
		fanout:           fanout,
	}
}

// RegisterFamilyRoutes registers family request routes
func (h *FamilyHandler) RegisterFamilyRoutes(g *echo.Group) {
	g.POST("/family/requests", h.SendRequest)
	g.GET("/family/requests", h.GetPendingRequests)
	g.PUT("/family/requests/:id", h.RespondToRequest)
	g.DELETE("/family/requests/:id", h.CancelRequest)
	g.GET("/family/members", h.GetFamilyMembers)
}

// SendRequest sends a family link request and notifies the receiver
func (h *FamilyHandler) SendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFamilyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot send a family request to yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	familyReq := &models.FamilyRequest{
		SenderID:   currentUserID,
		ReceiverID: req.ReceiverID,
		Relation:   req.Relation,
	}
	if err := h.familyRepository.SendFamilyRequest(familyReq); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		if err := h.fanout.Notify(currentUserID, req.ReceiverID, models.NotificationFamilyRequest, "user", strconv.FormatUint(uint64(currentUserID), 10), actor.Name+" wants to link as family", ""); err != nil {
			log.Printf("handlers: failed to notify family request receiver %d: %v", req.ReceiverID, err)
		}
	}

	return c.JSON(http.StatusCreated, familyReq)
}

// GetPendingRequests lists pending requests addressed to the caller
func (h *FamilyHandler) GetPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.familyRepository.GetPendingFamilyRequests(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"requests": requests}})
}

// RespondToRequest accepts or rejects a pending request addressed to the
// caller. Acceptance notifies the original sender.
func (h *FamilyHandler) RespondToRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateFamilyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	familyReq, err := h.familyRepository.GetFamilyRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Family request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if familyReq.ReceiverID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only respond to requests addressed to you")
	}

	if err := h.familyRepository.UpdateFamilyRequestStatus(uint(requestID), req.Status); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	if req.Status == models.FamilyRequestAccepted {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			if err := h.fanout.Notify(currentUserID, familyReq.SenderID, models.NotificationFamilyRequest, "user", strconv.FormatUint(uint64(currentUserID), 10), actor.Name+" accepted your family request", ""); err != nil {
				log.Printf("handlers: failed to notify family request sender %d: %v", familyReq.SenderID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CancelRequest lets the sender withdraw a request they sent
func (h *FamilyHandler) CancelRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	familyReq, err := h.familyRepository.GetFamilyRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Family request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if familyReq.SenderID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only cancel requests you sent")
	}

	if err := h.familyRepository.DeleteFamilyRequest(uint(requestID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFamilyMembers lists users linked to the caller by an accepted request
func (h *FamilyHandler) GetFamilyMembers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	members, err := h.familyRepository.GetFamilyMembers(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"members": compactUsers(members)}})
}
