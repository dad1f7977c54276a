package ai

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// ProviderFactory builds the provider on first use.
type ProviderFactory func() Provider

// Orchestrator dispatches chat calls to a lazily resolved provider and
// reports telemetry for every call. It is safe for concurrent use.
type Orchestrator struct {
	factory   ProviderFactory
	model     string
	logger    *zap.Logger
	maxLogLen int

	once     sync.Once
	provider Provider
}

// OrchestratorOption customises an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMaxLogLength bounds prompt and response previews in debug logs.
func WithMaxLogLength(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxLogLen = n
		}
	}
}

// NewOrchestrator returns an orchestrator that calls factory exactly once,
// on the first chat call, and uses model unless a call overrides it.
func NewOrchestrator(factory ProviderFactory, model string, log *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		factory:   factory,
		model:     strings.TrimSpace(model),
		logger:    logger.WithFields(log),
		maxLogLen: defaultMaxLogLength,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) resolve() Provider {
	o.once.Do(func() {
		o.provider = o.factory()
		o.logger.Info("llm provider resolved", logger.CommonFields(o.provider.Name(), o.model)...)
	})

	return o.provider
}

// Provider returns the resolved provider name.
func (o *Orchestrator) Provider() string {
	return o.resolve().Name()
}

// Model returns the default model id.
func (o *Orchestrator) Model() string {
	return o.model
}

// Chat returns the text of the reply.
func (o *Orchestrator) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	res, err := o.Complete(ctx, messages, opts)
	if err != nil {
		return "", err
	}

	return res.Content, nil
}

// Complete performs one provider call and returns the full result. Provider
// errors are logged and returned unchanged.
func (o *Orchestrator) Complete(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	provider := o.resolve()

	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = o.model
	}

	log := o.logger.With(logger.StringFields(
		logger.StringField{Key: logger.FieldProvider, Value: provider.Name()},
		logger.StringField{Key: logger.FieldRequestedModel, Value: opts.Model},
		logger.StringField{Key: logger.FieldCorrelationID, Value: opts.CorrelationID},
	)...)

	log.Debug("llm call started",
		zap.Int("messages", len(messages)),
		zap.Int("prompt_length", promptLength(messages)),
		zap.Float64("temperature", opts.EffectiveTemperature()),
	)

	start := time.Now()
	res, err := provider.Chat(ctx, messages, opts)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("llm call failed", zap.Duration("duration", elapsed), zap.Error(err))
		return nil, err
	}

	log.Info("llm call completed",
		zap.String(logger.FieldModel, res.Model),
		zap.Int("prompt_tokens", res.Usage.PromptTokens),
		zap.Int("completion_tokens", res.Usage.CompletionTokens),
		zap.Int("total_tokens", res.Usage.TotalTokens),
		zap.Duration("duration", elapsed),
	)
	log.Debug("llm response",
		zap.Int("response_length", utf8.RuneCountInString(res.Content)),
		zap.String("response_preview", utils.TruncateForLog(res.Content, o.maxLogLen)),
	)

	return res, nil
}

// ChatJSON sends messages and decodes the reply into T using the JSON
// extraction fallback chain. A reply without JSON yields *JSONParseError.
func ChatJSON[T any](ctx context.Context, chatter Chatter, messages []Message, opts Options) (T, error) {
	raw, err := chatter.Chat(ctx, messages, opts)
	if err != nil {
		var zero T
		return zero, err
	}

	return ParseJSON[T](raw)
}

func promptLength(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += utf8.RuneCountInString(m.Content)
	}
	return total
}
