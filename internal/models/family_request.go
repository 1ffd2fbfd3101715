package models

import "gorm.io/gorm"

// Family request statuses
const (
	FamilyRequestPending  = "pending"
	FamilyRequestAccepted = "accepted"
	FamilyRequestRejected = "rejected"
)

// FamilyRequest represents a request to link two users as family
type FamilyRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index"`
	ReceiverID uint   `json:"receiver_id" gorm:"index"`
	Relation   string `json:"relation" gorm:"size:30"` // e.g. "parent", "sibling", "cousin"
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// CreateFamilyRequest defines the request body for sending a family request
type CreateFamilyRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Relation   string `json:"relation,omitempty" validate:"omitempty,max=30"`
}

// UpdateFamilyRequest defines the request body for accepting/rejecting a family request
type UpdateFamilyRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
