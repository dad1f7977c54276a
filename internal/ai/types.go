// Package ai holds the provider-agnostic chat contract shared by every LLM
// vendor adapter and the orchestrator that dispatches calls to one of them.
package ai

import "context"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTemperature is used when the caller does not set one.
const DefaultTemperature = 0.7

const maxTemperature = 2.0

// Message is one entry of a conversation.
type Message struct {
	Role    Role   `json:"role" mapstructure:"role"`
	Content string `json:"content" mapstructure:"content"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Options tune a single chat call.
type Options struct {
	// Temperature is left nil to use DefaultTemperature.
	Temperature *float64
	// MaxOutputTokens is omitted from the vendor request when zero.
	MaxOutputTokens int
	// Model overrides the configured default model.
	Model string
	// CorrelationID is only used for tracing.
	CorrelationID string
}

// Temperature returns a pointer suitable for Options.Temperature.
func Temperature(v float64) *float64 {
	return &v
}

// EffectiveTemperature resolves the default and clamps the value to [0, 2].
func (o Options) EffectiveTemperature() float64 {
	if o.Temperature == nil {
		return DefaultTemperature
	}

	t := *o.Temperature
	switch {
	case t < 0:
		return 0
	case t > maxTemperature:
		return maxTemperature
	default:
		return t
	}
}

// Usage reports token counts. Vendors that omit usage report zeros.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Result is the outcome of one successful chat call.
type Result struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
	// Model is the id the vendor was called with.
	Model string `json:"modelUsed"`
	// RequestedModel is the id as configured, vendor prefix included.
	RequestedModel string `json:"requestedModel,omitempty"`
	Provider       string `json:"provider,omitempty"`
}

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks github.com/spigell/hire-agent/internal/ai Provider

// Provider adapts one vendor chat-completion API.
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts Options) (*Result, error)
	Name() string
}

// Chatter returns the text of a model reply. Agents depend on it instead of
// the concrete orchestrator.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

// SplitSystem separates the leading system prompt, if any, from the rest of
// the conversation. Later system messages are kept in place.
func SplitSystem(messages []Message) (string, []Message) {
	if len(messages) > 0 && messages[0].Role == RoleSystem {
		return messages[0].Content, messages[1:]
	}
	return "", messages
}
