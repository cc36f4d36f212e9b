package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sinantan/document-chat-assistant/types"
)

// FileRepo is the blob store: raw document bytes in GridFS plus the chunk
// sets produced by the pipeline, both partitioned by document id.
type FileRepo interface {
	StoreFile(ctx context.Context, content []byte, filename, contentType string, metadata map[string]interface{}) (string, error)
	GetFile(ctx context.Context, fileID string) ([]byte, bson.M, error)
	// DeleteFile reports false without error when the file is already gone,
	// so a failed document delete can be retried.
	DeleteFile(ctx context.Context, fileID string) (bool, error)

	StoreChunks(ctx context.Context, documentID string, chunks []types.DocumentChunk) error
	GetChunks(ctx context.Context, documentID string) ([]types.DocumentChunk, error)
	DeleteChunks(ctx context.Context, documentID string) (bool, error)
}

type fileRepo struct {
	bucket *mongo.GridFSBucket
	chunks *mongo.Collection
}

func NewFileRepo(db *mongo.Database) FileRepo {
	return &fileRepo{
		bucket: db.GridFSBucket(),
		chunks: db.Collection("chunks"),
	}
}

func (r *fileRepo) StoreFile(ctx context.Context, content []byte, filename, contentType string, metadata map[string]interface{}) (string, error) {
	meta := bson.M{
		"contentType": contentType,
		"uploadDate":  time.Now().UTC(),
	}
	for k, v := range metadata {
		meta[k] = v
	}

	fileID, err := r.bucket.UploadFromStream(ctx, filename, bytes.NewReader(content),
		options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return fileID.Hex(), nil
}

func (r *fileRepo) GetFile(ctx context.Context, fileID string) ([]byte, bson.M, error) {
	oid, err := bson.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file id %q: %w", fileID, err)
	}

	stream, err := r.bucket.OpenDownloadStream(ctx, oid)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", fileID, err)
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}

	file := stream.GetFile()
	metadata := bson.M{
		"filename": file.Name,
		"length":   file.Length,
	}
	if file.Metadata != nil {
		var extra bson.M
		if err := bson.Unmarshal(file.Metadata, &extra); err == nil {
			for k, v := range extra {
				metadata[k] = v
			}
		}
	}
	return content, metadata, nil
}

func (r *fileRepo) DeleteFile(ctx context.Context, fileID string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(fileID)
	if err != nil {
		return false, fmt.Errorf("invalid file id %q: %w", fileID, err)
	}

	if err := r.bucket.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrFileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return true, nil
}

func (r *fileRepo) StoreChunks(ctx context.Context, documentID string, chunks []types.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	docs := make([]interface{}, 0, len(chunks))
	for _, chunk := range chunks {
		chunk.DocumentID = documentID
		chunk.CreatedAt = now
		docs = append(docs, chunk)
	}

	_, err := r.chunks.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to store document chunks: %w", err)
	}
	return nil
}

func (r *fileRepo) GetChunks(ctx context.Context, documentID string) ([]types.DocumentChunk, error) {
	cursor, err := r.chunks.Find(ctx,
		bson.M{"document_id": documentID},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve document chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []types.DocumentChunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode document chunks: %w", err)
	}
	return chunks, nil
}

func (r *fileRepo) DeleteChunks(ctx context.Context, documentID string) (bool, error) {
	result, err := r.chunks.DeleteMany(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return false, fmt.Errorf("failed to delete document chunks: %w", err)
	}
	return result.DeletedCount > 0, nil
}
