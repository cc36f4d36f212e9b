package service

import (
	"fmt"
	"strings"

	"github.com/sinantan/document-chat-assistant/types"
)

// PromptBuilder flattens document chunks, a bounded slice of conversation
// history and the new user message into a single prompt string. It never
// touches the network.
type PromptBuilder struct {
	historyWindow int
}

func NewPromptBuilder(historyWindow int) *PromptBuilder {
	return &PromptBuilder{historyWindow: historyWindow}
}

// Build assembles the prompt. With chunks present the model is instructed
// to answer strictly from the document sections; without chunks it falls
// back to a plain conversational prompt. History must be oldest first; only
// the most recent historyWindow entries are kept.
func (b *PromptBuilder) Build(chunks []types.DocumentChunk, history []*types.Message, message string) string {
	var parts []string

	if len(chunks) > 0 {
		var contextParts []string
		for i, chunk := range chunks {
			contextParts = append(contextParts, fmt.Sprintf("Document Section %d:", i+1))
			contextParts = append(contextParts, chunk.Content)
			contextParts = append(contextParts, "")
		}
		parts = append(parts, fmt.Sprintf("Context: %s\n", strings.Join(contextParts, "\n")))

		message = fmt.Sprintf("Based on the provided document context, please answer the following question.\n"+
			"If the answer is not found in the document, please say so clearly.\n\nQuestion: %s", message)
	}

	if len(history) > b.historyWindow {
		history = history[len(history)-b.historyWindow:]
	}
	if len(history) > 0 {
		parts = append(parts, "Conversation History:")
		for _, msg := range history {
			role := "Assistant"
			if msg.Role == types.MessageRoleUser {
				role = "Human"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", role, msg.Content))
		}
		parts = append(parts, "")
	}

	parts = append(parts, fmt.Sprintf("Human: %s", message))
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}
