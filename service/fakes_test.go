package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sinantan/document-chat-assistant/types"
)

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*types.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*types.Document)}
}

func (r *fakeDocumentRepo) CreateDocument(_ context.Context, doc *types.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetDocument(_ context.Context, id string) (*types.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.IsDeleted {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) ListByUser(_ context.Context, userID string, skip, limit int64) ([]*types.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*types.Document
	for _, doc := range r.docs {
		if doc.UserID == userID && !doc.IsDeleted {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

func (r *fakeDocumentRepo) UpdateDocument(_ context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return errors.New("document not found")
	}
	for k, v := range fields {
		switch k {
		case "status":
			doc.Status = v.(types.DocumentStatus)
		case "page_count":
			count := v.(int)
			doc.PageCount = &count
		case "chunk_count":
			count := v.(int)
			doc.ChunkCount = &count
		case "error_message":
			doc.ErrorMessage = v.(string)
		}
	}
	return nil
}

func (r *fakeDocumentRepo) SoftDeleteDocument(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.IsDeleted = true
	}
	return nil
}

type fakeFileRepo struct {
	mu        sync.Mutex
	nextID    int
	files     map[string][]byte
	chunks    map[string][]types.DocumentChunk
	storeErr  error
	chunksErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		files:  make(map[string][]byte),
		chunks: make(map[string][]types.DocumentChunk),
	}
}

func (r *fakeFileRepo) StoreFile(_ context.Context, content []byte, _, _ string, _ map[string]interface{}) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return "", r.storeErr
	}
	r.nextID++
	id := fmt.Sprintf("file-%d", r.nextID)
	r.files[id] = content
	return id, nil
}

func (r *fakeFileRepo) GetFile(_ context.Context, fileID string) ([]byte, bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.files[fileID]
	if !ok {
		return nil, nil, errors.New("file not found")
	}
	return content, bson.M{}, nil
}

func (r *fakeFileRepo) DeleteFile(_ context.Context, fileID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[fileID]; !ok {
		return false, nil
	}
	delete(r.files, fileID)
	return true, nil
}

func (r *fakeFileRepo) StoreChunks(_ context.Context, documentID string, chunks []types.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chunksErr != nil {
		return r.chunksErr
	}
	stored := make([]types.DocumentChunk, len(chunks))
	copy(stored, chunks)
	for i := range stored {
		stored[i].DocumentID = documentID
	}
	r.chunks[documentID] = append(r.chunks[documentID], stored...)
	return nil
}

func (r *fakeFileRepo) GetChunks(_ context.Context, documentID string) ([]types.DocumentChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunks[documentID], nil
}

func (r *fakeFileRepo) DeleteChunks(_ context.Context, documentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.chunks[documentID]
	delete(r.chunks, documentID)
	return ok, nil
}

type fakeExtractor struct {
	text  string
	pages int
	err   error
}

func (e *fakeExtractor) ExtractText(_ []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

func (e *fakeExtractor) PageCount(_ []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	return e.pages, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*types.Conversation
	activityBumps int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*types.Conversation)}
}

func (r *fakeConversationRepo) CreateConversation(_ context.Context, conversation *types.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *conversation
	r.conversations[conversation.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) GetConversation(_ context.Context, id string) (*types.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[id]
	if !ok || conversation.IsDeleted {
		return nil, nil
	}
	copied := *conversation
	return &copied, nil
}

func (r *fakeConversationRepo) ListByUser(_ context.Context, userID string, skip, limit int64) ([]*types.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var conversations []*types.Conversation
	for _, conversation := range r.conversations {
		if conversation.UserID == userID && !conversation.IsDeleted {
			copied := *conversation
			conversations = append(conversations, &copied)
		}
	}
	return conversations, nil
}

func (r *fakeConversationRepo) UpdateLastActivity(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activityBumps++
	return nil
}

func (r *fakeConversationRepo) SoftDeleteConversation(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation, ok := r.conversations[id]; ok {
		conversation.IsDeleted = true
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*types.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, message *types.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *message
	// Preserve insertion order even when timestamps collide.
	copied.CreatedAt = int64(len(r.messages))
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string, skip, limit int64) ([]*types.Message, error) {
	live := r.live(conversationID)
	if skip >= int64(len(live)) {
		return nil, nil
	}
	live = live[skip:]
	if limit < int64(len(live)) {
		live = live[:limit]
	}
	return live, nil
}

func (r *fakeMessageRepo) ListRecent(_ context.Context, conversationID string, limit int64) ([]*types.Message, error) {
	live := r.live(conversationID)
	var recent []*types.Message
	for i := len(live) - 1; i >= 0 && int64(len(recent)) < limit; i-- {
		recent = append(recent, live[i])
	}
	return recent, nil
}

func (r *fakeMessageRepo) CountByConversation(_ context.Context, conversationID string) (int64, error) {
	return int64(len(r.live(conversationID))), nil
}

func (r *fakeMessageRepo) SoftDeleteByConversation(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			message.IsDeleted = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) live(conversationID string) []*types.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []*types.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID && !message.IsDeleted {
			copied := *message
			live = append(live, &copied)
		}
	}
	return live
}

type fakeAIService struct {
	result     *types.CompletionResult
	err        error
	lastPrompt string
	calls      int
}

func (s *fakeAIService) Complete(_ context.Context, prompt string) (*types.CompletionResult, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
