// Package llm is a thin client for OpenAI-compatible chat completion APIs.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// MoonshotBaseURL is the OpenAI-compatible endpoint of Moonshot
	MoonshotBaseURL = "https://api.moonshot.cn/v1"

	defaultTimeout = 120 * time.Second
)

// Client sends chat completions to one provider
type Client struct {
	client  *openai.Client
	timeout time.Duration
}

// NewClient creates a client. An empty baseURL uses the OpenAI default.
func NewClient(apiKey, baseURL string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client:  openai.NewClientWithConfig(config),
		timeout: defaultTimeout,
	}
}

// Chat sends a system and user message and returns the reply text
func (c *Client) Chat(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return content, nil
}
