package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinantan/document-chat-assistant/types"
)

type chatFixture struct {
	svc              *ChatService
	conversationRepo *fakeConversationRepo
	messageRepo      *fakeMessageRepo
	documentRepo     *fakeDocumentRepo
	fileRepo         *fakeFileRepo
	ai               *fakeAIService
}

func newChatFixture() *chatFixture {
	conversationRepo := newFakeConversationRepo()
	messageRepo := newFakeMessageRepo()

	documentService, documentRepo, fileRepo := newTestDocumentService(nil)
	documentService.SetSubmitter(func(string) bool { return true })

	ai := &fakeAIService{
		result: &types.CompletionResult{
			Content: "the answer",
			Model:   "test-model",
			Usage:   types.CompletionUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
		},
	}

	svc := NewChatService(conversationRepo, messageRepo, documentService, ai, NewPromptBuilder(5), 10)
	return &chatFixture{
		svc:              svc,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		documentRepo:     documentRepo,
		fileRepo:         fileRepo,
		ai:               ai,
	}
}

func (f *chatFixture) uploadProcessedDocument(t *testing.T, userID string) *types.Document {
	t.Helper()
	docSvc := f.svc.documentService
	doc, err := docSvc.Upload(context.Background(), userID, []byte("%PDF"), "manual.pdf", "application/pdf")
	require.NoError(t, err)
	require.NoError(t, docSvc.Process(context.Background(), doc.ID))
	return doc
}

func TestChatRequiresConversationOrDocument(t *testing.T) {
	f := newChatFixture()

	_, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{Message: "hello"})

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidation, appErr.Code)
	// Nothing persisted for an invalid turn.
	assert.Empty(t, f.messageRepo.messages)
	assert.Empty(t, f.conversationRepo.conversations)
	assert.Zero(t, f.ai.calls)
}

func TestChatStartsConversationFromDocument(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "what does it say?",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Conversation)
	assert.Equal(t, "user-1", resp.Conversation.UserID)
	assert.Equal(t, doc.ID, resp.Conversation.DocumentID)
	assert.Equal(t, "manual: what does it say?", resp.Conversation.Title)

	assert.Equal(t, types.MessageRoleUser, resp.UserMessage.Role)
	assert.Equal(t, "what does it say?", resp.UserMessage.Content)
	assert.Equal(t, types.MessageRoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, "the answer", resp.AssistantMessage.Content)
	require.NotNil(t, resp.AssistantMessage.TokenCount)
	assert.Equal(t, 15, *resp.AssistantMessage.TokenCount)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	// The document's chunks made it into the prompt.
	assert.Contains(t, f.ai.lastPrompt, "Document Section 1:")

	assert.Len(t, f.messageRepo.messages, 2)
	assert.Equal(t, 1, f.conversationRepo.activityBumps)
}

func TestChatTitleTruncatesLongMessage(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	long := strings.Repeat("a", 80)
	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    long,
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "manual: "+strings.Repeat("a", 50)+"...", resp.Conversation.Title)
}

func TestChatContinuesExistingConversation(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	first, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "first question",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	second, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:        "second question",
		ConversationID: first.Conversation.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Len(t, f.messageRepo.messages, 4)

	// The first exchange appears as history in the second prompt.
	assert.Contains(t, f.ai.lastPrompt, "Human: first question")
	assert.Contains(t, f.ai.lastPrompt, "Assistant: the answer")
}

func TestChatHistoryExcludesCurrentMessage(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "only question",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// First turn has no history, the question appears exactly once.
	assert.Equal(t, 1, strings.Count(f.ai.lastPrompt, "only question"))
	assert.NotContains(t, f.ai.lastPrompt, "Conversation History:")
}

func TestChatRejectsOtherUsersConversation(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	first, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "mine",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	before := len(f.messageRepo.messages)
	_, err = f.svc.Chat(context.Background(), "user-2", &types.ChatMessageRequest{
		Message:        "not mine",
		ConversationID: first.Conversation.ID,
	})

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFound, appErr.Code)
	// No user message persisted for a rejected turn.
	assert.Len(t, f.messageRepo.messages, before)
}

func TestChatRejectsOtherUsersDocument(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	_, err := f.svc.Chat(context.Background(), "user-2", &types.ChatMessageRequest{
		Message:    "hello",
		DocumentID: doc.ID,
	})

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFound, appErr.Code)
	assert.Empty(t, f.conversationRepo.conversations)
}

func TestChatModelFailureKeepsUserMessage(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")
	f.ai.err = types.NewExternalServiceError("AI service unavailable", "gemini", nil)

	_, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "doomed question",
		DocumentID: doc.ID,
	})

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeExternalService, appErr.Code)

	// The user side of the turn is already durable.
	require.Len(t, f.messageRepo.messages, 1)
	assert.Equal(t, types.MessageRoleUser, f.messageRepo.messages[0].Role)
	assert.Equal(t, "doomed question", f.messageRepo.messages[0].Content)
	assert.Zero(t, f.conversationRepo.activityBumps)
}

func TestChatHistoryWindowBounded(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	first, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "turn 0",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	for i := 1; i <= 8; i++ {
		_, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
			Message:        fmt.Sprintf("turn %d", i),
			ConversationID: first.Conversation.ID,
		})
		require.NoError(t, err)
	}

	// 16 history messages exist, but the prompt window keeps only 5.
	assert.NotContains(t, f.ai.lastPrompt, "Human: turn 0\n")
	assert.Contains(t, f.ai.lastPrompt, "Human: turn 7")
}

func TestGetConversationMessages(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "hello",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	page, err := f.svc.GetConversationMessages(context.Background(), resp.Conversation.ID, "user-1", 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, types.MessageRoleUser, page.Messages[0].Role)
	assert.Equal(t, types.MessageRoleAssistant, page.Messages[1].Role)

	_, err = f.svc.GetConversationMessages(context.Background(), resp.Conversation.ID, "user-2", 0, 50)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFound, appErr.Code)
}

func TestDeleteConversationCascades(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "hello",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteConversation(context.Background(), resp.Conversation.ID, "user-1"))

	var appErr *types.AppError
	_, err = f.svc.GetConversationMessages(context.Background(), resp.Conversation.ID, "user-1", 0, 50)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFound, appErr.Code)

	// Messages are tombstoned alongside the conversation.
	count, err := f.messageRepo.CountByConversation(context.Background(), resp.Conversation.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteConversationRejectsOtherOwner(t *testing.T) {
	f := newChatFixture()
	doc := f.uploadProcessedDocument(t, "user-1")

	resp, err := f.svc.Chat(context.Background(), "user-1", &types.ChatMessageRequest{
		Message:    "hello",
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	err = f.svc.DeleteConversation(context.Background(), resp.Conversation.ID, "user-2")
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFound, appErr.Code)

	// Still readable by the owner.
	_, err = f.svc.GetConversationMessages(context.Background(), resp.Conversation.ID, "user-1", 0, 50)
	require.NoError(t, err)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, estimateTokens(""))
	assert.Equal(t, 1, estimateTokens("hi"))
	assert.Equal(t, 2, estimateTokens("12345678"))
	assert.Equal(t, 25, estimateTokens(strings.Repeat("a", 100)))
}
