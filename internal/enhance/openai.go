// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/httputil"
	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

const (
	// maxCompletionTokens caps replies; a cleaned-up question fits well within it.
	maxCompletionTokens = 150
	// completionTemperature keeps rewrites close to the source wording.
	completionTemperature = 0.1
)

// OpenAIBackend completes prompts through an OpenAI-compatible chat endpoint.
// Per prd003-enhancement R1.1.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a backend from enhancement config. cfg.BaseURL
// overrides the endpoint so tests and self-hosted gateways can stand in for
// the hosted API.
func NewOpenAIBackend(cfg types.EnhanceConfig) *OpenAIBackend {
	transportCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transportCfg.BaseURL = cfg.BaseURL
	}
	transportCfg.HTTPClient = httputil.NewClient(cfg.Timeout)

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(transportCfg),
		model:  cfg.Model,
	}
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxCompletionTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
