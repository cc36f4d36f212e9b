package service

import (
	"strings"

	"github.com/sinantan/document-chat-assistant/types"
)

// ChunkText splits text into overlapping word windows of chunkSize words,
// advancing by chunkSize-overlap words per step so overlap words repeat at
// every boundary. The last window always covers the tail of the word
// sequence exactly once. Empty or whitespace-only input yields no chunks.
func ChunkText(text string, chunkSize, overlap int) ([]types.DocumentChunk, error) {
	if chunkSize <= 0 {
		return nil, types.NewValidationError("chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, types.NewValidationError("chunk overlap must be smaller than chunk size")
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	chunks := make([]types.DocumentChunk, 0, (len(words)+step-1)/step)

	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[start:end], " ")
		chunks = append(chunks, types.DocumentChunk{
			ChunkIndex: len(chunks),
			Content:    content,
			WordCount:  end - start,
			CharCount:  len(content),
			StartWord:  start,
			EndWord:    end,
		})

		if end == len(words) {
			break
		}
	}

	return chunks, nil
}
