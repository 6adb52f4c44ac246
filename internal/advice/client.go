package advice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient builds a Client. It fails with ErrNoAPIKey when no key is set.
func NewClient(cfg Config) (*Client, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	ocfg := openai.DefaultConfig(key)
	ocfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	httpClient := &http.Client{}
	if cfg.TimeoutMs > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	ocfg.HTTPClient = httpClient
	return &Client{
		client: openai.NewClientWithConfig(ocfg),
		model:  cfg.Model,
	}, nil
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to request advice: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
