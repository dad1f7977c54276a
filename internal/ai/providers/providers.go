// Package providers builds the configured ai.Provider.
package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/ai/gemini"
	"github.com/spigell/hire-agent/internal/ai/openai"
	"go.uber.org/zap"
)

const (
	OpenAI     = "openai"
	OpenRouter = "openrouter"
	Google     = "google"
	Kimi       = "kimi"
	// Moonshot is an alias of Kimi.
	Moonshot = "moonshot"

	DefaultProvider = OpenRouter
	DefaultModel    = "google/gemini-3-flash-preview"
)

// Vendor holds credentials and endpoint overrides for one vendor.
type Vendor struct {
	APIKey  string
	BaseURL string
}

// Config selects and configures the provider.
type Config struct {
	Provider   string
	Model      string
	OpenAI     Vendor
	OpenRouter Vendor
	Google     Vendor
	Kimi       Vendor
}

// Normalized fills defaults.
func (c Config) Normalized() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}

// New builds the provider named in cfg. An unknown name falls back to
// OpenRouter with a warning. Construction never fails: a provider that cannot
// be built reports the reason on every call instead.
func New(ctx context.Context, cfg Config, logger *zap.Logger) ai.Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.Normalized()

	switch cfg.Provider {
	case OpenAI:
		return newCompatible(openai.OpenAI, cfg.OpenAI, cfg.Model, logger)
	case OpenRouter:
		return newCompatible(openai.OpenRouter, cfg.OpenRouter, cfg.Model, logger)
	case Kimi, Moonshot:
		return newCompatible(openai.Kimi, cfg.Kimi, cfg.Model, logger)
	case Google, "gemini":
		client, err := gemini.New(ctx, cfg.Google.APIKey, cfg.Model, logger)
		if err != nil {
			logger.Warn("gemini provider unavailable", zap.Error(err))
			return unavailable{name: Google, model: cfg.Model, err: err}
		}
		return client
	default:
		logger.Warn("unknown llm provider, falling back",
			zap.String("provider", cfg.Provider),
			zap.String("fallback", DefaultProvider),
		)
		return newCompatible(openai.OpenRouter, cfg.OpenRouter, cfg.Model, logger)
	}
}

// Factory adapts New to ai.ProviderFactory.
func Factory(ctx context.Context, cfg Config, logger *zap.Logger) ai.ProviderFactory {
	return func() ai.Provider {
		return New(ctx, cfg, logger)
	}
}

func newCompatible(flavor openai.Flavor, vendor Vendor, model string, logger *zap.Logger) ai.Provider {
	if strings.TrimSpace(vendor.APIKey) == "" {
		logger.Warn("llm api key is not configured", zap.String("provider", flavor.Name))
	}

	return openai.New(flavor, vendor.APIKey, model,
		openai.WithBaseURL(vendor.BaseURL),
		openai.WithLogger(logger),
	)
}

type unavailable struct {
	name  string
	model string
	err   error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Chat(context.Context, []ai.Message, ai.Options) (*ai.Result, error) {
	return nil, &ai.ProviderError{Provider: u.name, Model: u.model, Err: fmt.Errorf("provider unavailable: %w", u.err)}
}
