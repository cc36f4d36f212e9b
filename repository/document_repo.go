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

type DocumentRepo interface {
	CreateDocument(ctx context.Context, doc *types.Document) error
	// GetDocument returns nil without error when no live record matches.
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.Document, error)
	UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error
	SoftDeleteDocument(ctx context.Context, id string) error
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(collection *mongo.Collection) DocumentRepo {
	return &documentRepo{
		collection: collection,
	}
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *types.Document) error {
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *documentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.Document, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID, "is_deleted": false},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*types.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error {
	update := bson.M{}
	for k, v := range fields {
		update[k] = v
	}
	update["updated_at"] = time.Now().UnixMilli()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *documentRepo) SoftDeleteDocument(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_deleted": true,
		"updated_at": time.Now().UnixMilli(),
	}})
	return err
}
