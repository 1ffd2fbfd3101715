package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/policy"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	fanout            *notify.Fanout
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, fanout *notify.Fanout) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		fanout:            fanout,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment and notifies the post author plus anyone
// mentioned. The author commenting on their own post produces no
// notification; a mention of the comment author themselves is likewise
// dropped.
func (h *CommentHandler) CreateComment(c echo.Context) error {
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

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	comment := &models.Comment{
		PostID:  req.PostID,
		UserID:  currentUserID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), req.PostID); err != nil {
		log.Printf("handlers: failed to increment comments count for post %s: %v", req.PostID, err)
	}

	if err := h.fanout.Notify(currentUserID, post.UserID, models.NotificationComment, "post", req.PostID, actor.Name+" commented on your post", ""); err != nil {
		log.Printf("handlers: failed to notify post author %d: %v", post.UserID, err)
	}
	for _, mentioned := range req.Mentions {
		if err := h.fanout.Notify(currentUserID, mentioned, models.NotificationMention, "post", req.PostID, actor.Name+" mentioned you in a comment", ""); err != nil {
			log.Printf("handlers: failed to notify mentioned user %d: %v", mentioned, err)
		}
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments retrieves all comments on a post, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.commentRepository.CountByPostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments, "count": count}})
}

// UpdateComment updates a comment owned by the caller
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own comments")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment. Owners delete their own; admins may
// moderate any.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentUserID {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		if d := policy.Authorize(actor, policy.ActionModerate); !d.Allowed {
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
		}
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementCommentsCount(c.Request().Context(), comment.PostID); err != nil {
		log.Printf("handlers: failed to decrement comments count for post %s: %v", comment.PostID, err)
	}
	return c.NoContent(http.StatusNoContent)
}
