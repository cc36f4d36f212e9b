package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinantan/document-chat-assistant/types"
)

func historyMessages(n int) []*types.Message {
	messages := make([]*types.Message, n)
	for i := range messages {
		role := types.MessageRoleUser
		if i%2 == 1 {
			role = types.MessageRoleAssistant
		}
		messages[i] = &types.Message{Role: role, Content: fmt.Sprintf("message-%d", i)}
	}
	return messages
}

func TestPromptBuilderDeterministic(t *testing.T) {
	builder := NewPromptBuilder(5)
	chunks := []types.DocumentChunk{{Content: "section one"}, {Content: "section two"}}
	history := historyMessages(4)

	first := builder.Build(chunks, history, "what is this?")
	second := builder.Build(chunks, history, "what is this?")
	assert.Equal(t, first, second)
}

func TestPromptBuilderDocumentSections(t *testing.T) {
	builder := NewPromptBuilder(5)
	chunks := []types.DocumentChunk{
		{Content: "first chunk text"},
		{Content: "second chunk text"},
	}

	prompt := builder.Build(chunks, nil, "where is the answer?")

	assert.Contains(t, prompt, "Document Section 1:")
	assert.Contains(t, prompt, "first chunk text")
	assert.Contains(t, prompt, "Document Section 2:")
	assert.Contains(t, prompt, "second chunk text")
	assert.Contains(t, prompt, "If the answer is not found in the document, please say so clearly.")
	assert.Contains(t, prompt, "Question: where is the answer?")
	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))

	// Sections are emitted in index order.
	assert.Less(t, strings.Index(prompt, "Document Section 1:"), strings.Index(prompt, "Document Section 2:"))
}

func TestPromptBuilderPlainChatFallback(t *testing.T) {
	builder := NewPromptBuilder(5)
	prompt := builder.Build(nil, historyMessages(2), "hello there")

	assert.NotContains(t, prompt, "Context:")
	assert.NotContains(t, prompt, "Document Section")
	assert.NotContains(t, prompt, "Question:")
	assert.Contains(t, prompt, "Human: hello there")
	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
}

func TestPromptBuilderHistoryWindow(t *testing.T) {
	builder := NewPromptBuilder(5)
	history := historyMessages(20)

	prompt := builder.Build(nil, history, "final question")

	// Only the most recent five history entries survive.
	for i := 0; i < 15; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("message-%d\n", i))
	}
	for i := 15; i < 20; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("message-%d", i))
	}

	// Kept entries stay chronological.
	require.Less(t, strings.Index(prompt, "message-15"), strings.Index(prompt, "message-19"))
}

func TestPromptBuilderRoleLabels(t *testing.T) {
	builder := NewPromptBuilder(5)
	history := []*types.Message{
		{Role: types.MessageRoleUser, Content: "ping"},
		{Role: types.MessageRoleAssistant, Content: "pong"},
	}

	prompt := builder.Build(nil, history, "next")
	assert.Contains(t, prompt, "Human: ping")
	assert.Contains(t, prompt, "Assistant: pong")
}
