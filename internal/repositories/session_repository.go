package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/famnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)
	UpdateHeartbeat(ctx context.Context, id string, userID uint, at time.Time, durationMs int64) error
	CompleteSession(ctx context.Context, id string, userID uint, at time.Time) error
	GetSessionsByUserID(ctx context.Context, userID uint, limit int64) ([]models.Session, error)
}

// MongoSessionRepository implements SessionRepository for MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{collection: db.Collection("sessions")}
}

// CreateSession creates a new session document in MongoDB
func (r *MongoSessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// GetSessionByID retrieves a session by ID from MongoDB
func (r *MongoSessionRepository) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID format: %w", err)
	}

	var session models.Session
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("session not found")
		}
		return nil, err
	}
	return &session, nil
}

// UpdateHeartbeat stamps the session's last heartbeat and stores the
// client-reported accumulated duration verbatim. The filter matches on the
// owning user so one user cannot heartbeat another user's session.
func (r *MongoSessionRepository) UpdateHeartbeat(ctx context.Context, id string, userID uint, at time.Time, durationMs int64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid session ID format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"last_heartbeat": at,
			"duration_ms":    durationMs,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, "user_id": userID, "status": models.SessionActive}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session not found or not active")
	}
	return nil
}

// CompleteSession transitions a session from active to completed, scoped to
// the owning user. The match on status makes completed terminal: a second
// call is a not-found error.
func (r *MongoSessionRepository) CompleteSession(ctx context.Context, id string, userID uint, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid session ID format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":   models.SessionCompleted,
			"ended_at": at,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, "user_id": userID, "status": models.SessionActive}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session not found or not active")
	}
	return nil
}

// GetSessionsByUserID retrieves a user's most recent sessions from MongoDB
func (r *MongoSessionRepository) GetSessionsByUserID(ctx context.Context, userID uint, limit int64) ([]models.Session, error) {
	var sessions []models.Session
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "started_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
