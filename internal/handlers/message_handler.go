package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct chat HTTP requests
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	fanout            *notify.Fanout
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, fanout *notify.Fanout) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
		fanout:            fanout,
	}
}

// RegisterMessageRoutes registers chat routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/:userId", h.GetConversation)
	g.PUT("/messages/:userId/read", h.MarkConversationRead)
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// SendMessage sends a direct message and notifies the receiver
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot message yourself")
	}
	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	message := &models.Message{
		SenderID:   currentUserID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := h.messageRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		if err := h.fanout.Notify(currentUserID, req.ReceiverID, models.NotificationMessage, "user", strconv.FormatUint(uint64(currentUserID), 10), "New message from "+actor.Name, ""); err != nil {
			log.Printf("handlers: failed to notify message receiver %d: %v", req.ReceiverID, err)
		}
	}

	return c.JSON(http.StatusCreated, message)
}

// GetConversation retrieves the message history with another user
func (h *MessageHandler) GetConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit := feedPagination(c)
	messages, err := h.messageRepository.GetConversation(c.Request().Context(), currentUserID, uint(otherID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}

// MarkConversationRead marks all messages from the other user as read
func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.messageRepository.MarkConversationRead(c.Request().Context(), currentUserID, uint(otherID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUnreadCount counts unread messages addressed to the caller
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.messageRepository.GetUnreadCountByReceiver(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}
