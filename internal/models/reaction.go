package models

import "gorm.io/gorm"

// Reaction represents a like on a feed post
type Reaction struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index"` // ID of the post that was liked (MongoDB ObjectID as string)
	UserID uint   `json:"user_id" gorm:"index"` // ID of the user who liked the post
}
