package handlers

import (
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/policy"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AuditHandler exposes the admin audit trail
type AuditHandler struct {
	auditRepository repositories.AuditRepository
	userRepository  repositories.UserRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repositories.AuditRepository, userRepo repositories.UserRepository) *AuditHandler {
	return &AuditHandler{auditRepository: auditRepo, userRepository: userRepo}
}

// RegisterAuditRoutes registers audit routes
func (h *AuditHandler) RegisterAuditRoutes(g *echo.Group) {
	g.GET("/audit", h.GetRecent)
}

// GetRecent lists the newest audit events. Admin only.
func (h *AuditHandler) GetRecent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if d := policy.Authorize(actor, policy.ActionViewAudit); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, d.Reason)
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	events, err := h.auditRepository.GetRecent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"events": events}})
}
