package handlers

import (
	"log"
	"net/http"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GroupHandler handles family group HTTP requests
type GroupHandler struct {
	groupRepository repositories.GroupRepository
	userRepository  repositories.UserRepository
	fanout          *notify.Fanout
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository, fanout *notify.Fanout) *GroupHandler {
	return &GroupHandler{
		groupRepository: groupRepo,
		userRepository:  userRepo,
		fanout:          fanout,
	}
}

// RegisterGroupRoutes registers group routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups", h.GetMyGroups)
	g.GET("/groups/:id", h.GetGroup)
	g.POST("/groups/:id/invite", h.InviteMember)
	g.POST("/groups/:id/accept", h.AcceptInvite)
	g.DELETE("/groups/:id/members/me", h.LeaveGroup)
	g.DELETE("/groups/:id", h.DeleteGroup)
}

// CreateGroup creates a group with the caller as owner and first member
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     currentUserID,
	}
	if err := h.groupRepository.CreateGroup(c.Request().Context(), group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, group)
}

// GetMyGroups lists groups the caller belongs to
func (h *GroupHandler) GetMyGroups(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groups, err := h.groupRepository.GetGroupsByMember(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"groups": groups}})
}

// GetGroup retrieves a group by ID, visible to members only
func (h *GroupHandler) GetGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if !containsID(group.MemberIDs, currentUserID) && !containsID(group.InvitedIDs, currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}
	return c.JSON(http.StatusOK, group)
}

// InviteMember invites a user to the group and notifies them. Only current
// members may invite.
func (h *GroupHandler) InviteMember(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID := c.Param("id")
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), groupID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if !containsID(group.MemberIDs, currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "Only members can invite")
	}

	var req models.InviteGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if containsID(group.MemberIDs, req.UserID) {
		return echo.NewHTTPError(http.StatusConflict, "User is already a member")
	}
	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := h.groupRepository.AddInvite(c.Request().Context(), groupID, req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		if err := h.fanout.Notify(currentUserID, req.UserID, models.NotificationGroupInvite, "group", groupID, actor.Name+" invited you to "+group.Name, ""); err != nil {
			log.Printf("handlers: failed to notify invited user %d: %v", req.UserID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AcceptInvite accepts a pending group invitation
func (h *GroupHandler) AcceptInvite(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.groupRepository.AcceptInvite(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// LeaveGroup removes the caller from the group's member list
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.groupRepository.RemoveMember(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteGroup deletes a group. Owner only.
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if group.OwnerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the owner can delete a group")
	}

	if err := h.groupRepository.DeleteGroup(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
