// Package openai talks to vendors exposing the OpenAI chat completions API:
// OpenAI itself, OpenRouter and Moonshot Kimi.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/utils"
	"go.uber.org/zap"
)

const (
	contentType    = "application/json"
	defaultTimeout = 2 * time.Minute
	maxErrorBody   = 2048
)

// Flavor describes the differences between compatible vendors.
type Flavor struct {
	Name    string
	BaseURL string
	// FixedTemperature replaces the caller temperature when set.
	FixedTemperature *float64
	// KeepVendorPrefix sends qualified ids such as "google/gemini-3-flash-preview" untouched.
	KeepVendorPrefix bool
	Headers          map[string]string
}

var (
	OpenAI = Flavor{
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
	}
	// OpenRouter routes by qualified model id, so the prefix is part of the name.
	OpenRouter = Flavor{
		Name:             "openrouter",
		BaseURL:          "https://openrouter.ai/api/v1",
		KeepVendorPrefix: true,
		Headers:          map[string]string{"X-Title": "hire-agent"},
	}
	// Kimi models only accept temperature 1.
	Kimi = Flavor{
		Name:             "kimi",
		BaseURL:          "https://api.moonshot.cn/v1",
		FixedTemperature: ai.Temperature(1),
	}
)

// Client is an ai.Provider for one compatible vendor.
type Client struct {
	flavor  Flavor
	apiKey  string
	baseURL string
	model   string
	logger  *zap.Logger

	HTTPClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint, e.g. a proxy or a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url = strings.TrimSpace(url); url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger.WithFields(log)
	}
}

// New creates a client for flavor that uses model unless a call overrides it.
func New(flavor Flavor, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		flavor:     flavor,
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(flavor.BaseURL, "/"),
		model:      strings.TrimSpace(model),
		logger:     zap.NewNop(),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Name() string {
	return c.flavor.Name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends one chat completion request.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ai.Options) (*ai.Result, error) {
	requested := strings.TrimSpace(opts.Model)
	if requested == "" {
		requested = c.model
	}

	model := requested
	if !c.flavor.KeepVendorPrefix {
		model = ai.NormalizeModel(requested)
	}

	temperature := opts.EffectiveTemperature()
	if c.flavor.FixedTemperature != nil {
		temperature = *c.flavor.FixedTemperature
	}

	payload := chatRequest{
		Model:       model,
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: temperature,
		MaxTokens:   opts.MaxOutputTokens,
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	fail := func(status int, err error) error {
		return &ai.ProviderError{Provider: c.flavor.Name, Model: model, StatusCode: status, Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fail(0, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fail(0, fmt.Errorf("create request: %w", err))
	}

	c.setHeaders(req)

	c.logger.Debug("make request",
		zap.String("provider", c.flavor.Name),
		zap.String("url", req.URL.String()),
		zap.String("model", model),
		zap.Float64("temperature", temperature),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fail(0, fmt.Errorf("send request: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fail(resp.StatusCode, fmt.Errorf("bad status %d: %s", resp.StatusCode, utils.TruncateForLog(string(raw), maxErrorBody)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return nil, ai.NewEmptyResponse(c.flavor.Name, model)
	}

	result := &ai.Result{
		Content:        decoded.Choices[0].Message.Content,
		Model:          model,
		RequestedModel: requested,
		Provider:       c.flavor.Name,
	}
	if decoded.Usage != nil {
		result.Usage = ai.Usage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		}
	}

	return result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.flavor.Headers {
		req.Header.Set(key, value)
	}
}
