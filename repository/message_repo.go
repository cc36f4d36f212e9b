package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sinantan/document-chat-assistant/types"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, message *types.Message) error
	// ListByConversation returns live messages oldest first.
	ListByConversation(ctx context.Context, conversationID string, skip, limit int64) ([]*types.Message, error)
	// ListRecent returns the newest live messages, newest first.
	ListRecent(ctx context.Context, conversationID string, limit int64) ([]*types.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
	SoftDeleteByConversation(ctx context.Context, conversationID string) error
}

type messageRepo struct {
	collection *mongo.Collection
}

func NewMessageRepo(collection *mongo.Collection) MessageRepo {
	return &messageRepo{
		collection: collection,
	}
}

func (r *messageRepo) CreateMessage(ctx context.Context, message *types.Message) error {
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID string, skip, limit int64) ([]*types.Message, error) {
	return r.list(ctx, conversationID, skip, limit, 1)
}

func (r *messageRepo) ListRecent(ctx context.Context, conversationID string, limit int64) ([]*types.Message, error) {
	return r.list(ctx, conversationID, 0, limit, -1)
}

func (r *messageRepo) list(ctx context.Context, conversationID string, skip, limit int64, order int) ([]*types.Message, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"conversation_id": conversationID, "is_deleted": false},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: order}}).
			SetSkip(skip).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*types.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"conversation_id": conversationID,
		"is_deleted":      false,
	})
}

func (r *messageRepo) SoftDeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UnixMilli()}})
	return err
}
