package models

import "time"

// Notification types. system_broadcast rows are produced only by the admin
// broadcast path; everything else comes from individual user actions.
const (
	NotificationLike          = "like"
	NotificationComment       = "comment"
	NotificationGroupInvite   = "group_invite"
	NotificationFollow        = "follow"
	NotificationMention       = "mention"
	NotificationAdminAction   = "admin_action"
	NotificationFamilyRequest = "family_request"
	NotificationMessage       = "message"
	NotificationBroadcast     = "system_broadcast"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Type            string    `json:"type" gorm:"size:30;index"`
	ActorID         uint      `json:"actor_id" gorm:"index"`
	RecipientID     uint      `json:"recipient_id" gorm:"index"`
	TargetID        string    `json:"target_id"`                  // post ID, group ID, broadcast ID, etc.
	TargetType      string    `json:"target_type" gorm:"size:20"` // post, comment, user, group, event, broadcast
	PreviewImageURL string    `json:"preview_image_url"`
	Message         string    `json:"message"`
	IsRead          bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// BroadcastRequest defines the admin request body for a system-wide broadcast
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=120"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
	Link    string `json:"link,omitempty" validate:"omitempty,url"`
}
