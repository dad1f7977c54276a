package ai_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/ai/mocks"
	"github.com/spigell/hire-agent/internal/logger"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrchestratorResolvesProviderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("openrouter").AnyTimes()
	provider.EXPECT().Chat(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ai.Result{Content: "ok", Model: "google/gemini-3-flash-preview"}, nil).
		Times(8)

	var built atomic.Int32
	orch := ai.NewOrchestrator(func() ai.Provider {
		built.Add(1)
		return provider
	}, "google/gemini-3-flash-preview", zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orch.Chat(context.Background(), []ai.Message{ai.UserMessage("hi")}, ai.Options{}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := built.Load(); got != 1 {
		t.Fatalf("expected provider to be built once, got %d", got)
	}
}

func TestOrchestratorAppliesDefaultModel(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("google").AnyTimes()

	var seen []string
	provider.EXPECT().Chat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []ai.Message, opts ai.Options) (*ai.Result, error) {
			seen = append(seen, opts.Model)
			return &ai.Result{Content: "ok", Model: ai.NormalizeModel(opts.Model), RequestedModel: opts.Model}, nil
		}).Times(2)

	orch := ai.NewOrchestrator(func() ai.Provider { return provider }, "google/gemini-3-flash-preview", nil)

	if _, err := orch.Chat(context.Background(), nil, ai.Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := orch.Chat(context.Background(), nil, ai.Options{Model: "gemini-2.5-pro"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 || seen[0] != "google/gemini-3-flash-preview" || seen[1] != "gemini-2.5-pro" {
		t.Fatalf("unexpected models passed to provider: %v", seen)
	}
}

func TestOrchestratorTelemetry(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("openai").AnyTimes()
	provider.EXPECT().Chat(gomock.Any(), gomock.Any(), gomock.Any()).Return(&ai.Result{
		Content:        "hello",
		Model:          "gpt-4o",
		RequestedModel: "openai/gpt-4o",
		Usage:          ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil)

	core, observed := observer.New(zapcore.InfoLevel)
	orch := ai.NewOrchestrator(func() ai.Provider { return provider }, "openai/gpt-4o", zap.New(core))

	text, err := orch.Chat(context.Background(), []ai.Message{ai.UserMessage("hi")}, ai.Options{CorrelationID: "req-42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Fatalf("unexpected text: %q", text)
	}

	entries := observed.FilterMessage("llm call completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields[logger.FieldCorrelationID] != "req-42" {
		t.Fatalf("expected correlation id, got %v", fields[logger.FieldCorrelationID])
	}
	if fields[logger.FieldModel] != "gpt-4o" || fields[logger.FieldRequestedModel] != "openai/gpt-4o" {
		t.Fatalf("expected both model ids in telemetry, got %v / %v", fields[logger.FieldModel], fields[logger.FieldRequestedModel])
	}
	if fields["total_tokens"] != int64(15) {
		t.Fatalf("expected total tokens, got %v", fields["total_tokens"])
	}
	if _, ok := fields["duration"]; !ok {
		t.Fatalf("expected duration field")
	}
}

func TestOrchestratorReturnsProviderErrorUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)

	vendorErr := &ai.ProviderError{Provider: "kimi", Model: "kimi-k2", StatusCode: 500, Err: errors.New("boom")}

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("kimi").AnyTimes()
	provider.EXPECT().Chat(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, vendorErr)

	core, observed := observer.New(zapcore.InfoLevel)
	orch := ai.NewOrchestrator(func() ai.Provider { return provider }, "kimi-k2", zap.New(core))

	_, err := orch.Chat(context.Background(), nil, ai.Options{CorrelationID: "req-7"})
	if err != vendorErr {
		t.Fatalf("expected the provider error unchanged, got %v", err)
	}

	failures := observed.FilterMessage("llm call failed").All()
	if len(failures) != 1 {
		t.Fatalf("expected one failure entry, got %d", len(failures))
	}
	if failures[0].ContextMap()[logger.FieldCorrelationID] != "req-7" {
		t.Fatalf("expected correlation id on failure entry")
	}
}

type stubChatter struct {
	reply string
	err   error
}

func (s stubChatter) Chat(context.Context, []ai.Message, ai.Options) (string, error) {
	return s.reply, s.err
}

func TestChatJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		A int `json:"a"`
	}

	got, err := ai.ChatJSON[payload](context.Background(), stubChatter{reply: "Here you go\n```json\n{\"a\":1}\n```\nCheers"}, nil, ai.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.A != 1 {
		t.Fatalf("expected a=1, got %+v", got)
	}

	_, err = ai.ChatJSON[payload](context.Background(), stubChatter{reply: "nothing useful"}, nil, ai.Options{})
	var parseErr *ai.JSONParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected JSONParseError, got %v", err)
	}
	if parseErr.Preview != "nothing useful" {
		t.Fatalf("unexpected preview %q", parseErr.Preview)
	}

	sentinel := errors.New("network down")
	if _, err := ai.ChatJSON[payload](context.Background(), stubChatter{err: sentinel}, nil, ai.Options{}); !errors.Is(err, sentinel) {
		t.Fatalf("expected chat error to propagate, got %v", err)
	}
}
