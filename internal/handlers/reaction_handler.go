package handlers

import (
	"log"
	"net/http"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/notify"
	"github.com/famnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles post like/unlike HTTP requests
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	fanout             *notify.Fanout
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, fanout *notify.Fanout) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		postRepository:     postRepo,
		userRepository:     userRepo,
		fanout:             fanout,
	}
}

// RegisterReactionRoutes registers reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
	g.GET("/posts/:id/likes", h.GetLikeCount)
}

// LikePost records a like and notifies the post author. Liking twice is a
// no-op; liking your own post produces no notification.
func (h *ReactionHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	already, err := h.reactionRepository.HasUserReacted(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if already {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
	}

	if err := h.reactionRepository.CreateReaction(&models.Reaction{PostID: postID, UserID: currentUserID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID); err != nil {
		log.Printf("handlers: failed to increment likes count for post %s: %v", postID, err)
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		preview := ""
		if len(post.ImageURLs) > 0 {
			preview = post.ImageURLs[0]
		}
		if err := h.fanout.Notify(currentUserID, post.UserID, models.NotificationLike, "post", postID, actor.Name+" liked your post", preview); err != nil {
			log.Printf("handlers: failed to notify post author %d: %v", post.UserID, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// GetLikeCount counts a post's reaction rows directly. The counter cached on
// the post document can drift when an increment fails after the row write, so
// this is the authoritative number.
func (h *ReactionHandler) GetLikeCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	count, err := h.reactionRepository.GetReactionsCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.reactionRepository.HasUserReacted(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likes": count, "liked": liked}})
}

// UnlikePost removes the caller's like from a post
func (h *ReactionHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	if err := h.reactionRepository.DeleteReaction(postID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err := h.postRepository.DecrementLikesCount(c.Request().Context(), postID); err != nil {
		log.Printf("handlers: failed to decrement likes count for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}
