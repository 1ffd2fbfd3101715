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

// MessageRepository defines the interface for chat message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetConversation(ctx context.Context, userA, userB uint, skip, limit int64) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, readerID, senderID uint) error
	GetUnreadCountByReceiver(ctx context.Context, receiverID uint) (int64, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage creates a new chat message in MongoDB
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetConversation retrieves messages exchanged between two users, newest first
func (r *MongoMessageRepository) GetConversation(ctx context.Context, userA, userB uint, skip, limit int64) ([]models.Message, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender_id": userA, "receiver_id": userB},
			bson.M{"sender_id": userB, "receiver_id": userA},
		},
	}
	var messages []models.Message
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead marks all messages from senderID to readerID as read
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, readerID, senderID uint) error {
	filter := bson.M{"receiver_id": readerID, "sender_id": senderID, "is_read": false}
	_, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// GetUnreadCountByReceiver counts unread messages addressed to a user
func (r *MongoMessageRepository) GetUnreadCountByReceiver(ctx context.Context, receiverID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "is_read": false})
}
