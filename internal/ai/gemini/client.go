// Package gemini adapts the Google Gemini API to the ai.Provider contract.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	providerName = "google"
	defaultModel = "gemini-3-flash-preview"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends conversations to Gemini as a single folded prompt.
type Client struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// New creates a Gemini client. The model may carry a vendor prefix; it is
// stripped before calling the API.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, model, log), nil
}

func newClient(models contentGenerator, model string, log *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		models: models,
		model:  model,
		logger: logger.WithFields(log),
	}
}

func (c *Client) Name() string {
	return providerName
}

// Chat folds the conversation into one prompt and returns the joined text parts.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ai.Options) (*ai.Result, error) {
	if c == nil || c.models == nil {
		return nil, errors.New("gemini client is not initialized")
	}

	requested := strings.TrimSpace(opts.Model)
	if requested == "" {
		requested = c.model
	}
	model := ai.NormalizeModel(requested)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.EffectiveTemperature())),
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}

	prompt := FoldPrompt(messages)

	c.logger.Debug("gemini generate content request",
		zap.String(logger.FieldModel, model),
		zap.String(logger.FieldRequestedModel, requested),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return nil, &ai.ProviderError{Provider: providerName, Model: model, StatusCode: apiStatus(err), Err: err}
	}

	output := joinText(resp)
	if output == "" {
		return nil, ai.NewEmptyResponse(providerName, model)
	}

	result := &ai.Result{
		Content:        output,
		Model:          model,
		RequestedModel: requested,
		Provider:       providerName,
	}
	if usage := resp.UsageMetadata; usage != nil {
		result.Usage = ai.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}

	return result, nil
}

// FoldPrompt renders a conversation for a model without a system role: the
// first system message becomes an instruction header and every other turn is
// labelled with its speaker.
func FoldPrompt(messages []ai.Message) string {
	var b strings.Builder

	for _, m := range messages {
		if m.Role == ai.RoleSystem {
			fmt.Fprintf(&b, "System Instructions: %s\n\n", m.Content)
			break
		}
	}

	for _, m := range messages {
		switch m.Role {
		case ai.RoleSystem:
			continue
		case ai.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n\n", m.Content)
		default:
			fmt.Fprintf(&b, "User: %s\n\n", m.Content)
		}
	}

	return b.String()
}

func joinText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate carries the answer.
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}

func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}
