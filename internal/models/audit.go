package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records an accountable admin or system action in MongoDB.
// Writing one is always best-effort; a failed audit write never blocks the
// action that produced it.
type AuditEvent struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Event     string                 `json:"event" bson:"event"`
	ActorID   uint                   `json:"actor_id" bson:"actor_id"`
	Details   map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}
