// Package llm implements the text completion capability over an
// OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"visualnotes/core"
)

// Client implements core.TextCompleter using the go-openai chat completion
// API. Safe for concurrent use; the underlying client pools connections.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient creates a completion client from the pipeline configuration.
//
// The BaseURL may point at api.openai.com or any compatible proxy or
// self-hosted endpoint. Every Complete call is wrapped with the configured
// AITimeout so a hung request surfaces as a transport error instead of
// stalling its unit forever.
func NewClient(config *core.Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("llm: config cannot be nil")
	}
	if config.OpenAIAPIKey == "" {
		return nil, core.ErrMissingAuth("openai")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIAPIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     config.TextModel,
		maxTokens: config.TextMaxTokens,
		timeout:   config.AITimeout,
	}, nil
}

// Complete sends one prompt and returns the raw model text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens: c.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("llm: completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
