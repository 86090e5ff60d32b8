package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/CodexForgeBR/prompt-eval/internal/logging"
)

// Option configures an OpenAIClient.
type Option func(*OpenAIClient)

// WithAPIKey sets the bearer token sent to the endpoint.
func WithAPIKey(key string) Option {
	return func(c *OpenAIClient) { c.apiKey = key }
}

// WithSystemPrompt sets the system message. Empty means no system message.
func WithSystemPrompt(prompt string) Option {
	return func(c *OpenAIClient) { c.systemPrompt = prompt }
}

// WithTimeout bounds a single HTTP request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *OpenAIClient) { c.timeout = d }
}

// WithMaxTokens caps the completion length. Zero leaves it to the server.
func WithMaxTokens(n int) Option {
	return func(c *OpenAIClient) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature. Nil leaves it to the server.
func WithTemperature(t *float32) Option {
	return func(c *OpenAIClient) { c.temperature = t }
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenAIClient) { c.httpClient = hc }
}

// OpenAIClient implements Client against an OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	client       *openai.Client
	baseURL      string
	model        string
	apiKey       string
	systemPrompt string
	timeout      time.Duration
	maxTokens    int
	temperature  *float32
	httpClient   *http.Client
}

// NewOpenAI creates a client for model served at baseURL (for example
// "http://localhost:8000/v1").
func NewOpenAI(baseURL, model string, opts ...Option) (*OpenAIClient, error) {
	if baseURL == "" {
		return nil, errors.New("endpoint URL cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model name cannot be empty")
	}

	c := &OpenAIClient{
		baseURL: baseURL,
		model:   model,
		timeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}

	config := openai.DefaultConfig(c.apiKey)
	config.BaseURL = baseURL
	if c.httpClient != nil {
		config.HTTPClient = c.httpClient
	} else {
		config.HTTPClient = &http.Client{Timeout: c.timeout}
	}
	c.client = openai.NewClientWithConfig(config)

	logging.Debug("OpenAI client initialized",
		"url", baseURL, "model", model, "timeout", c.timeout, "max_tokens", c.maxTokens)

	return c, nil
}

// Model returns the model identifier sent with every request.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if c.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}
	if c.temperature != nil {
		req.Temperature = *c.temperature
	}

	logging.Debug("Sending chat completion", "model", c.model, "prompt_bytes", len(prompt))

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", Errorf(KindBadResponse, "response contained no choices")
	}

	logging.Debug("Chat completion received",
		"model", c.model,
		"finish_reason", string(resp.Choices[0].FinishReason),
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}
