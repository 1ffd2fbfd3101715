package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session statuses. A session only ever moves active -> completed; completed
// is terminal. A session abandoned by a closed browser stays active in
// storage and must be treated as stale by readers once its last heartbeat is
// older than twice the heartbeat interval.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// Session represents one browser session of a user, stored in MongoDB
type Session struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Device        string             `json:"device,omitempty" bson:"device,omitempty"`
	Status        string             `json:"status" bson:"status"`
	StartedAt     time.Time          `json:"started_at" bson:"started_at"`
	EndedAt       *time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	LastHeartbeat time.Time          `json:"last_heartbeat" bson:"last_heartbeat"`
	DurationMs    int64              `json:"duration_ms" bson:"duration_ms"` // Client-reported, diagnostic only
	Stale         bool               `json:"stale,omitempty" bson:"-"`       // Derived at read time, never stored
}

// StartSessionRequest defines the request body for opening a session
type StartSessionRequest struct {
	Device string `json:"device,omitempty" validate:"omitempty,max=200"`
}

// HeartbeatRequest defines the request body the client sends on its heartbeat interval
type HeartbeatRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ElapsedMs int64  `json:"elapsed_ms" validate:"min=0"`
}

// EndSessionRequest defines the request body for closing a session
type EndSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}
