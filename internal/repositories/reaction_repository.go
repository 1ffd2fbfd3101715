package repositories

import (
	"fmt"

	"github.com/famnest/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for post reaction operations
type ReactionRepository interface {
	CreateReaction(reaction *models.Reaction) error
	DeleteReaction(postID string, userID uint) error
	HasUserReacted(postID string, userID uint) (bool, error)
	GetReactionsCountByPostID(postID string) (int64, error)
	// DeleteByPostID removes every like on a post. Used when the post itself
	// is deleted.
	DeleteByPostID(postID string) error
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// CreateReaction records a like on a post
func (r *PostgresReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// DeleteReaction removes a user's like from a post
func (r *PostgresReactionRepository) DeleteReaction(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction not found")
	}
	return nil
}

// HasUserReacted reports whether the user already liked the post
func (r *PostgresReactionRepository) HasUserReacted(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Reaction{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetReactionsCountByPostID returns the number of likes on a post
func (r *PostgresReactionRepository) GetReactionsCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteByPostID removes all likes on a post
func (r *PostgresReactionRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Reaction{}).Error
}
