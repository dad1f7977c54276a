package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/hire-agent/internal/ai"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "", want: OpenRouter},
		{provider: "OpenAI", want: OpenAI},
		{provider: "openrouter", want: OpenRouter},
		{provider: "kimi", want: Kimi},
		{provider: "moonshot", want: Kimi},
	}

	for _, tt := range tests {
		p := New(context.Background(), Config{Provider: tt.provider, OpenAI: Vendor{APIKey: "k"}}, zap.NewNop())
		if p.Name() != tt.want {
			t.Fatalf("provider %q: expected %s, got %s", tt.provider, tt.want, p.Name())
		}
	}
}

func TestNewFallsBackOnUnknownProvider(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	p := New(context.Background(), Config{Provider: "anthropic-direct", OpenRouter: Vendor{APIKey: "k"}}, zap.New(core))

	if p.Name() != OpenRouter {
		t.Fatalf("expected fallback to %s, got %s", OpenRouter, p.Name())
	}

	entries := observed.FilterMessage("unknown llm provider, falling back").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["provider"] != "anthropic-direct" {
		t.Fatalf("expected configured provider in warning, got %v", entries[0].ContextMap())
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{Provider: "  Google "}.Normalized()
	if cfg.Provider != Google || cfg.Model != DefaultModel {
		t.Fatalf("unexpected normalized config %+v", cfg)
	}
}

func TestUnavailableReportsProviderError(t *testing.T) {
	p := unavailable{name: Google, model: "gemini-2.5-pro", err: errors.New("no api key")}

	_, err := p.Chat(context.Background(), nil, ai.Options{})

	var providerErr *ai.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Provider != Google {
		t.Fatalf("expected provider error, got %v", err)
	}
}
