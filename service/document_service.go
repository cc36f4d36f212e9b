package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sinantan/document-chat-assistant/config"
	"github.com/sinantan/document-chat-assistant/repository"
	"github.com/sinantan/document-chat-assistant/types"
	"github.com/sinantan/document-chat-assistant/utils"
)

// DocumentService runs the ingestion pipeline: validate, store raw bytes,
// then extract, chunk and persist in a background worker. The document
// status field is the only observable signal of processing progress.
type DocumentService struct {
	documentRepo repository.DocumentRepo
	fileRepo     repository.FileRepo
	extractor    TextExtractor
	cfg          config.UploadConfig
	submit       func(documentID string) bool
}

func NewDocumentService(
	documentRepo repository.DocumentRepo,
	fileRepo repository.FileRepo,
	extractor TextExtractor,
	cfg config.UploadConfig,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		fileRepo:     fileRepo,
		extractor:    extractor,
		cfg:          cfg,
	}
}

// SetSubmitter wires the background processor's submit function. Without a
// submitter uploads are accepted but stay at UPLOADING.
func (s *DocumentService) SetSubmitter(submit func(documentID string) bool) {
	s.submit = submit
}

// Upload validates the file before any durable write, stores the raw bytes,
// creates the document record and schedules processing. The caller gets the
// record back immediately, processing is not awaited.
func (s *DocumentService) Upload(ctx context.Context, userID string, content []byte, originalFilename, contentType string) (*types.Document, error) {
	if originalFilename == "" {
		return nil, types.NewValidationError("Filename is required")
	}
	if !s.typeAllowed(contentType) {
		return nil, types.NewValidationError(fmt.Sprintf("File type %s not allowed", contentType))
	}
	if int64(len(content)) > s.cfg.MaxFileSizeBytes() {
		return nil, types.NewValidationError(fmt.Sprintf(
			"File size %d exceeds maximum %d bytes", len(content), s.cfg.MaxFileSizeBytes()))
	}

	fileID, err := s.fileRepo.StoreFile(ctx, content, originalFilename, contentType, map[string]interface{}{
		"user_id":       userID,
		"original_size": len(content),
	})
	if err != nil {
		return nil, types.NewFileProcessingError("Failed to upload document", err)
	}

	now := time.Now().UnixMilli()
	doc := &types.Document{
		ID:               uuid.New().String(),
		UserID:           userID,
		Filename:         utils.UniqueFilename(originalFilename),
		OriginalFilename: originalFilename,
		FileSize:         int64(len(content)),
		MimeType:         contentType,
		Status:           types.DocumentStatusUploading,
		FileID:           fileID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.documentRepo.CreateDocument(ctx, doc); err != nil {
		return nil, types.NewFileProcessingError("Failed to upload document", err)
	}

	if s.submit != nil && !s.submit(doc.ID) {
		// Queue full: settle the record instead of blocking the upload.
		s.markFailed(ctx, doc.ID, "processing queue full")
		doc.Status = types.DocumentStatusFailed
		doc.ErrorMessage = "processing queue full"
	}

	return doc, nil
}

// Process runs one attempt of the extraction pipeline. Every exit path
// leaves the document in a terminal state.
func (s *DocumentService) Process(ctx context.Context, documentID string) error {
	doc, err := s.documentRepo.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", documentID)
	}
	if doc.Status.Terminal() {
		return nil
	}

	if err := s.documentRepo.UpdateDocument(ctx, documentID, map[string]interface{}{
		"status": types.DocumentStatusProcessing,
	}); err != nil {
		return s.fail(ctx, documentID, fmt.Errorf("failed to mark document processing: %w", err))
	}

	content, _, err := s.fileRepo.GetFile(ctx, doc.FileID)
	if err != nil {
		return s.fail(ctx, documentID, err)
	}

	text, err := s.extractor.ExtractText(content)
	if err != nil {
		return s.fail(ctx, documentID, err)
	}
	pageCount, err := s.extractor.PageCount(content)
	if err != nil {
		return s.fail(ctx, documentID, err)
	}

	chunks, err := ChunkText(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return s.fail(ctx, documentID, err)
	}

	if err := s.fileRepo.StoreChunks(ctx, documentID, chunks); err != nil {
		return s.fail(ctx, documentID, err)
	}

	if err := s.documentRepo.UpdateDocument(ctx, documentID, map[string]interface{}{
		"status":      types.DocumentStatusCompleted,
		"page_count":  pageCount,
		"chunk_count": len(chunks),
	}); err != nil {
		return s.fail(ctx, documentID, err)
	}

	log.Printf("Processed document %s: %d pages, %d chunks", documentID, pageCount, len(chunks))
	return nil
}

// GetDocument loads a live document owned by userID. Missing, deleted and
// not-owned records all report the same NotFound.
func (s *DocumentService) GetDocument(ctx context.Context, documentID, userID string) (*types.Document, error) {
	doc, err := s.documentRepo.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil || (userID != "" && doc.UserID != userID) {
		return nil, types.NewNotFoundError("Document not found")
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, userID string, skip, limit int64) ([]*types.Document, error) {
	return s.documentRepo.ListByUser(ctx, userID, skip, limit)
}

func (s *DocumentService) GetDocumentChunks(ctx context.Context, documentID, userID string) ([]types.DocumentChunk, error) {
	if _, err := s.GetDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}
	chunks, err := s.fileRepo.GetChunks(ctx, documentID)
	if err != nil {
		return nil, types.NewFileProcessingError("Failed to get document chunks", err)
	}
	return chunks, nil
}

func (s *DocumentService) GetDocumentContent(ctx context.Context, documentID, userID string) ([]byte, string, error) {
	doc, err := s.GetDocument(ctx, documentID, userID)
	if err != nil {
		return nil, "", err
	}
	content, _, err := s.fileRepo.GetFile(ctx, doc.FileID)
	if err != nil {
		return nil, "", types.NewFileProcessingError("Failed to get document content", err)
	}
	return content, doc.MimeType, nil
}

// Delete purges the raw bytes and chunks, then soft-deletes the record.
// Blob and chunk deletes tolerate already-missing data so a failed delete
// can be retried.
func (s *DocumentService) Delete(ctx context.Context, documentID, userID string) error {
	doc, err := s.GetDocument(ctx, documentID, userID)
	if err != nil {
		return err
	}

	if _, err := s.fileRepo.DeleteFile(ctx, doc.FileID); err != nil {
		return types.NewFileProcessingError("Failed to delete document", err)
	}
	if _, err := s.fileRepo.DeleteChunks(ctx, documentID); err != nil {
		return types.NewFileProcessingError("Failed to delete document", err)
	}
	if err := s.documentRepo.SoftDeleteDocument(ctx, documentID); err != nil {
		return types.NewFileProcessingError("Failed to delete document", err)
	}
	return nil
}

func (s *DocumentService) typeAllowed(contentType string) bool {
	for _, allowed := range s.cfg.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func (s *DocumentService) fail(ctx context.Context, documentID string, cause error) error {
	log.Printf("Document %s processing failed: %v", documentID, cause)
	s.markFailed(ctx, documentID, cause.Error())
	return cause
}

func (s *DocumentService) markFailed(ctx context.Context, documentID, message string) {
	if err := s.documentRepo.UpdateDocument(ctx, documentID, map[string]interface{}{
		"status":        types.DocumentStatusFailed,
		"error_message": message,
	}); err != nil {
		log.Printf("Failed to mark document %s failed: %v", documentID, err)
	}
}
