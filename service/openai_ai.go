package service

import (
	"context"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/sinantan/document-chat-assistant/config"
	"github.com/sinantan/document-chat-assistant/types"
)

// OpenAIService talks to OpenAI or any compatible endpoint (a local server
// works through the endpoint override).
type OpenAIService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

func NewOpenAIService(cfg config.AIConfig) *OpenAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (*types.CompletionResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   s.maxTokens,
			Temperature: s.temperature,
		},
	)
	if err != nil {
		log.Printf("OpenAI API error: %v", err)
		return nil, types.NewExternalServiceError("OpenAI API error", "openai", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, types.NewExternalServiceError("Empty response from OpenAI", "openai", nil)
	}

	return &types.CompletionResult{
		Content: resp.Choices[0].Message.Content,
		Model:   s.model,
		Usage: types.CompletionUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
