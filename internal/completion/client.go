// Package completion sends prompts to an OpenAI compatible chat-completion API.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-image-describer/internal/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// ErrEmptyReply is returned when the API answers without any choice.
var ErrEmptyReply = errors.New("chat completion returned no choices")

// Completer turns a prompt into the model's text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	StatusCode int
	Cause      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// Options configures an OpenAIClient.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	HTTPClient  *http.Client
}

// OpenAIClient implements Completer with a single, non-streaming request.
// Failures are returned as is; nothing is retried.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIClient(opts Options) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = NewHTTPClient()
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()
	logger.WithFields(logrus.Fields{
		"model":        c.model,
		"prompt_bytes": len(prompt),
	}).Debug("Calling chat completion")

	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", classify(err)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyReply
	}

	logger.WithFields(logrus.Fields{
		"model":         c.model,
		"finish_reason": response.Choices[0].FinishReason,
		"total_tokens":  response.Usage.TotalTokens,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Debug("Chat completion finished")

	return response.Choices[0].Message.Content, nil
}

// classify converts status carrying client errors into a StatusError.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Cause: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Cause: err}
	}
	return fmt.Errorf("chat completion request failed: %w", err)
}
