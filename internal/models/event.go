package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RSVP statuses
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPDeclined = "declined"
)

// Event represents a family event stored in MongoDB
type Event struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	HostID      uint               `json:"host_id" bson:"host_id"`
	GroupID     string             `json:"group_id,omitempty" bson:"group_id,omitempty"`
	StartsAt    time.Time          `json:"starts_at" bson:"starts_at"`
	EndsAt      *time.Time         `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
	RSVPs       []RSVP             `json:"rsvps" bson:"rsvps"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// RSVP records one user's answer for an event
type RSVP struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	Status    string    `json:"status" bson:"status"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateEventRequest defines the request body for creating an event
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=120"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=200"`
	GroupID     string     `json:"group_id,omitempty"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// RSVPRequest defines the request body for answering an event invitation
type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=going maybe declined"`
}
