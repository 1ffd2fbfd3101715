package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/policy"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ListingHandler handles marketplace listing HTTP requests
type ListingHandler struct {
	listingRepository repositories.ListingRepository
	userRepository    repositories.UserRepository
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingRepo repositories.ListingRepository, userRepo repositories.UserRepository) *ListingHandler {
	return &ListingHandler{listingRepository: listingRepo, userRepository: userRepo}
}

// RegisterListingRoutes registers listing routes
func (h *ListingHandler) RegisterListingRoutes(g *echo.Group) {
	g.POST("/listings", h.CreateListing)
	g.GET("/listings", h.GetOpenListings)
	g.GET("/listings/:id", h.GetListing)
	g.GET("/users/:id/listings", h.GetSellerListings)
	g.PUT("/listings/:id", h.UpdateListing)
	g.DELETE("/listings/:id", h.DeleteListing)
}

// CreateListing posts a new marketplace listing
func (h *ListingHandler) CreateListing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if d := policy.Authorize(actor, policy.ActionCreate); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, d.Reason)
	}

	var req models.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	listing := &models.Listing{
		SellerID:    currentUserID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Status:      models.ListingOpen,
	}
	if err := h.listingRepository.CreateListing(listing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, listing)
}

// GetOpenListings lists open listings with pagination
func (h *ListingHandler) GetOpenListings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	listings, total, err := h.listingRepository.GetOpenListings(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"listings": listings},
		"meta": echo.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalItems":  total,
		},
	})
}

// GetListing retrieves a listing by ID
func (h *ListingHandler) GetListing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing ID")
	}

	listing, err := h.listingRepository.GetListingByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing)
}

// GetSellerListings lists all listings posted by a seller
func (h *ListingHandler) GetSellerListings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	sellerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	listings, err := h.listingRepository.GetListingsBySeller(uint(sellerID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"listings": listings}})
}

// UpdateListing edits or closes a listing owned by the caller
func (h *ListingHandler) UpdateListing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing ID")
	}

	listing, err := h.listingRepository.GetListingByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if listing.SellerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own listings")
	}

	var req models.UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		listing.Title = req.Title
	}
	if req.Description != "" {
		listing.Description = req.Description
	}
	if req.PriceCents != nil {
		listing.PriceCents = *req.PriceCents
	}
	if req.Status != "" {
		listing.Status = req.Status
	}

	if err := h.listingRepository.UpdateListing(listing); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing)
}

// DeleteListing deletes a listing. Sellers delete their own; admins may
// moderate any.
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing ID")
	}

	listing, err := h.listingRepository.GetListingByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Listing not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if listing.SellerID != currentUserID {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		if d := policy.Authorize(actor, policy.ActionModerate); !d.Allowed {
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own listings")
		}
	}

	if err := h.listingRepository.DeleteListing(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
