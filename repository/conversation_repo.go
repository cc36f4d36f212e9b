package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sinantan/document-chat-assistant/types"
)

type ConversationRepo interface {
	CreateConversation(ctx context.Context, conversation *types.Conversation) error
	// GetConversation returns nil without error when no live record matches.
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.Conversation, error)
	UpdateLastActivity(ctx context.Context, id string) error
	SoftDeleteConversation(ctx context.Context, id string) error
}

type conversationRepo struct {
	collection *mongo.Collection
}

func NewConversationRepo(collection *mongo.Collection) ConversationRepo {
	return &conversationRepo{
		collection: collection,
	}
}

func (r *conversationRepo) CreateConversation(ctx context.Context, conversation *types.Conversation) error {
	_, err := r.collection.InsertOne(ctx, conversation)
	return err
}

func (r *conversationRepo) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	var conversation types.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.Conversation, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID, "is_deleted": false},
		options.Find().
			SetSort(bson.D{{Key: "updated_at", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []*types.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepo) UpdateLastActivity(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"updated_at": time.Now().UnixMilli(),
	}})
	return err
}

func (r *conversationRepo) SoftDeleteConversation(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_deleted": true,
		"updated_at": time.Now().UnixMilli(),
	}})
	return err
}
