package repositories

import (
	"context"
	"time"

	"github.com/famnest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository defines the interface for audit log persistence
type AuditRepository interface {
	Record(ctx context.Context, event *models.AuditEvent) error
	GetRecent(ctx context.Context, limit int64) ([]models.AuditEvent, error)
}

// MongoAuditRepository implements AuditRepository for MongoDB
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates a new MongoAuditRepository
func NewMongoAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{collection: db.Collection("audit_events")}
}

// Record persists an audit event
func (r *MongoAuditRepository) Record(ctx context.Context, event *models.AuditEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetRecent retrieves the newest audit events
func (r *MongoAuditRepository) GetRecent(ctx context.Context, limit int64) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
