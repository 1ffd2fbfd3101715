package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/policy"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles feed post HTTP requests
type PostHandler struct {
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	commentRepository  repositories.CommentRepository
	reactionRepository repositories.ReactionRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository, reactionRepo repositories.ReactionRepository) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		userRepository:     userRepo,
		commentRepository:  commentRepo,
		reactionRepository: reactionRepo,
	}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/feed", h.GetFeed)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

func feedPagination(c echo.Context) (skip, limit int64) {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

// CreatePost creates a new feed post
func (h *PostHandler) CreatePost(c echo.Context) error {
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

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:    currentUserID,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
		GroupID:   req.GroupID,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// GetFeed retrieves the shared family feed, or a group feed when group_id is set
func (h *PostHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	skip, limit := feedPagination(c)

	var posts []models.Post
	var err error
	if groupID := c.QueryParam("group_id"); groupID != "" {
		posts, err = h.postRepository.GetGroupFeed(c.Request().Context(), groupID, skip, limit)
	} else {
		posts, err = h.postRepository.GetFeed(c.Request().Context(), skip, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// GetUserPosts retrieves posts authored by a specific user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit := feedPagination(c)
	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), uint(userID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// UpdatePost updates a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		post.VideoURLs = req.VideoURLs
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Owners delete their own; admins may moderate any.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	if post.UserID != currentUserID {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		if d := policy.Authorize(actor, policy.ActionModerate); !d.Allowed {
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
		}
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Orphaned comments and likes are cleaned up best-effort; the post is
	// already gone either way.
	if err := h.commentRepository.DeleteByPostID(postID); err != nil {
		log.Printf("handlers: failed to delete comments for post %s: %v", postID, err)
	}
	if err := h.reactionRepository.DeleteByPostID(postID); err != nil {
		log.Printf("handlers: failed to delete reactions for post %s: %v", postID, err)
	}
	return c.NoContent(http.StatusNoContent)
}
