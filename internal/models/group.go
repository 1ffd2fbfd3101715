package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents a family group stored in MongoDB
type Group struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     uint               `json:"owner_id" bson:"owner_id"`
	MemberIDs   []uint             `json:"member_ids" bson:"member_ids"`
	InvitedIDs  []uint             `json:"invited_ids,omitempty" bson:"invited_ids,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// InviteGroupRequest defines the request body for inviting a user to a group
type InviteGroupRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
