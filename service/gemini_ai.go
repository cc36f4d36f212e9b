package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sinantan/document-chat-assistant/config"
	"github.com/sinantan/document-chat-assistant/types"
)

type GeminiService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	timeout   time.Duration
}

func NewGeminiService(ctx context.Context, cfg config.AIConfig) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	model.SetTemperature(cfg.Temperature)

	return &GeminiService{
		client:    client,
		model:     model,
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
	}, nil
}

func (s *GeminiService) Complete(ctx context.Context, prompt string) (*types.CompletionResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	content := collectText(resp)
	if content == "" {
		return nil, types.NewExternalServiceError("Empty response from Gemini", "gemini", nil)
	}

	usage := types.CompletionUsage{
		InputTokens:  len(strings.Fields(prompt)),
		OutputTokens: len(strings.Fields(content)),
	}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return &types.CompletionResult{
		Content: strings.TrimSpace(content),
		Model:   s.modelName,
		Usage:   usage,
	}, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

func mapGeminiError(err error) error {
	log.Printf("Gemini API error: %v", err)
	upper := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(upper, "API_KEY") || strings.Contains(upper, "API KEY"):
		return types.NewExternalServiceError("Invalid Gemini API key", "gemini", err)
	case strings.Contains(upper, "QUOTA") || strings.Contains(upper, "LIMIT"):
		return types.NewExternalServiceError("Gemini API quota exceeded", "gemini", err)
	default:
		return types.NewExternalServiceError("Gemini API error", "gemini", err)
	}
}
