package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sinantan/document-chat-assistant/repository"
	"github.com/sinantan/document-chat-assistant/types"
	"github.com/sinantan/document-chat-assistant/utils"
)

// ChatService owns the conversation lifecycle: it resolves or creates the
// conversation for a turn, persists both sides of the exchange and drives
// the prompt assembly and model call in between.
type ChatService struct {
	conversationRepo repository.ConversationRepo
	messageRepo      repository.MessageRepo
	documentService  *DocumentService
	aiService        AIService
	promptBuilder    *PromptBuilder
	historyLimit     int64
}

func NewChatService(
	conversationRepo repository.ConversationRepo,
	messageRepo repository.MessageRepo,
	documentService *DocumentService,
	aiService AIService,
	promptBuilder *PromptBuilder,
	historyLimit int64,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		documentService:  documentService,
		aiService:        aiService,
		promptBuilder:    promptBuilder,
		historyLimit:     historyLimit,
	}
}

// Chat executes one turn. The user message is persisted before the model
// call, so a failed turn leaves an auditable user message with no reply.
func (s *ChatService) Chat(ctx context.Context, userID string, req *types.ChatMessageRequest) (*types.ChatResponse, error) {
	conversation, err := s.resolveConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	userMessage := newMessage(conversation.ID, types.MessageRoleUser, req.Message, estimateTokens(req.Message))
	if err := s.messageRepo.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	history, err := s.recentHistory(ctx, conversation.ID, userMessage.ID)
	if err != nil {
		return nil, err
	}

	var chunks []types.DocumentChunk
	if conversation.DocumentID != "" {
		chunks, err = s.documentService.GetDocumentChunks(ctx, conversation.DocumentID, userID)
		if err != nil {
			return nil, err
		}
	}

	prompt := s.promptBuilder.Build(chunks, history, req.Message)
	result, err := s.aiService.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	assistantMessage := newMessage(conversation.ID, types.MessageRoleAssistant, result.Content, result.Usage.TotalTokens)
	if err := s.messageRepo.CreateMessage(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	if err := s.conversationRepo.UpdateLastActivity(ctx, conversation.ID); err != nil {
		return nil, fmt.Errorf("failed to update conversation activity: %w", err)
	}

	log.Printf("Chat turn completed: user=%s conversation=%s tokens=%d",
		userID, conversation.ID, result.Usage.TotalTokens)

	return &types.ChatResponse{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Conversation:     conversation,
		Usage:            result.Usage,
	}, nil
}

// resolveConversation applies the turn resolution rule: an existing
// conversation id wins, else a document id starts a new bound conversation,
// else the turn is invalid. Nothing is persisted on failure.
func (s *ChatService) resolveConversation(ctx context.Context, userID string, req *types.ChatMessageRequest) (*types.Conversation, error) {
	switch {
	case req.ConversationID != "":
		return s.getUserConversation(ctx, req.ConversationID, userID)
	case req.DocumentID != "":
		document, err := s.documentService.GetDocument(ctx, req.DocumentID, userID)
		if err != nil {
			return nil, err
		}
		now := time.Now().UnixMilli()
		conversation := &types.Conversation{
			ID:         uuid.New().String(),
			UserID:     userID,
			DocumentID: req.DocumentID,
			Title:      conversationTitle(document.OriginalFilename, req.Message),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.conversationRepo.CreateConversation(ctx, conversation); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		return conversation, nil
	default:
		return nil, types.NewValidationError("Either conversation_id or document_id is required")
	}
}

func (s *ChatService) ListConversations(ctx context.Context, userID string, skip, limit int64) ([]*types.Conversation, error) {
	return s.conversationRepo.ListByUser(ctx, userID, skip, limit)
}

func (s *ChatService) GetConversationMessages(ctx context.Context, conversationID, userID string, skip, limit int64) (*types.ConversationMessagesResponse, error) {
	conversation, err := s.getUserConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByConversation(ctx, conversationID, skip, limit)
	if err != nil {
		return nil, err
	}
	return &types.ConversationMessagesResponse{
		Conversation: conversation,
		Messages:     messages,
	}, nil
}

// DeleteConversation soft-deletes the conversation, then cascades to its
// messages. The two writes are not one transaction; a conversation without
// its messages tombstoned is recovered on the next delete attempt.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID, userID string) error {
	if _, err := s.getUserConversation(ctx, conversationID, userID); err != nil {
		return err
	}
	if err := s.conversationRepo.SoftDeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if err := s.messageRepo.SoftDeleteByConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation messages: %w", err)
	}
	return nil
}

// getUserConversation reports missing, deleted and not-owned conversations
// identically so other users' conversation ids cannot be probed.
func (s *ChatService) getUserConversation(ctx context.Context, conversationID, userID string) (*types.Conversation, error) {
	conversation, err := s.conversationRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, types.NewNotFoundError("Conversation not found")
	}
	return conversation, nil
}

// recentHistory fetches the bounded tail of the conversation, oldest first,
// excluding the message just persisted for this turn.
func (s *ChatService) recentHistory(ctx context.Context, conversationID, excludeID string) ([]*types.Message, error) {
	// One extra so the window stays full after the exclusion.
	recent, err := s.messageRepo.ListRecent(ctx, conversationID, s.historyLimit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	history := make([]*types.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].ID == excludeID {
			continue
		}
		history = append(history, recent[i])
	}
	if int64(len(history)) > s.historyLimit {
		history = history[int64(len(history))-s.historyLimit:]
	}
	return history, nil
}

func newMessage(conversationID, role, content string, tokenCount int) *types.Message {
	return &types.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		TokenCount:     &tokenCount,
		CreatedAt:      time.Now().UnixMilli(),
	}
}

// conversationTitle derives a title from the document's base filename and a
// preview of the first message, capped at 50 characters.
func conversationTitle(documentFilename, firstMessage string) string {
	docName := utils.BaseFilename(documentFilename)

	preview := firstMessage
	if len(preview) > 50 {
		preview = preview[:50] + "..."
	}
	return fmt.Sprintf("%s: %s", docName, preview)
}

// estimateTokens is a display-only heuristic, roughly four characters per
// token.
func estimateTokens(text string) int {
	tokens := len(text) / 4
	if tokens < 1 {
		return 1
	}
	return tokens
}
