package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spigell/hire-agent/internal/ai"
)

type capturedRequest struct {
	path   string
	auth   string
	header http.Header
	body   chatRequest
}

func newServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if captured != nil {
			captured.path = r.URL.Path
			captured.auth = r.Header.Get("Authorization")
			captured.header = r.Header.Clone()
			if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv
}

const okResponse = `{
	"model": "gpt-4o",
	"choices": [{"message": {"role": "assistant", "content": "Hi there!"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

func TestClientChat(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, http.StatusOK, okResponse, &captured)

	client := New(OpenAI, "test-key", "openai/gpt-4o", WithBaseURL(srv.URL))

	res, err := client.Chat(context.Background(), []ai.Message{
		ai.SystemMessage("be brief"),
		ai.UserMessage("hello"),
	}, ai.Options{Temperature: ai.Temperature(0.4), MaxOutputTokens: 256})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.path != "/chat/completions" {
		t.Fatalf("unexpected path %q", captured.path)
	}
	if captured.auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", captured.auth)
	}
	if captured.body.Model != "gpt-4o" {
		t.Fatalf("expected vendor prefix to be stripped, got %q", captured.body.Model)
	}
	if captured.body.Temperature != 0.4 || captured.body.MaxTokens != 256 {
		t.Fatalf("unexpected generation params: %+v", captured.body)
	}
	if len(captured.body.Messages) != 2 || captured.body.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.body.Messages)
	}

	if res.Content != "Hi there!" {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if res.Model != "gpt-4o" || res.RequestedModel != "openai/gpt-4o" {
		t.Fatalf("unexpected model ids: %q / %q", res.Model, res.RequestedModel)
	}
	if res.Usage != (ai.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}) {
		t.Fatalf("unexpected usage %+v", res.Usage)
	}
}

func TestClientFlavors(t *testing.T) {
	tests := []struct {
		name            string
		flavor          Flavor
		model           string
		temperature     float64
		wantModel       string
		wantTemperature float64
		wantHeader      string
	}{
		{
			name:            "openrouter keeps qualified id",
			flavor:          OpenRouter,
			model:           "google/gemini-3-flash-preview",
			temperature:     0.7,
			wantModel:       "google/gemini-3-flash-preview",
			wantTemperature: 0.7,
			wantHeader:      "hire-agent",
		},
		{
			name:            "kimi pins temperature",
			flavor:          Kimi,
			model:           "moonshot/kimi-k2",
			temperature:     0.2,
			wantModel:       "kimi-k2",
			wantTemperature: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured capturedRequest
			srv := newServer(t, http.StatusOK, okResponse, &captured)

			client := New(tt.flavor, "key", tt.model, WithBaseURL(srv.URL))
			if _, err := client.Chat(context.Background(), []ai.Message{ai.UserMessage("hi")}, ai.Options{Temperature: ai.Temperature(tt.temperature)}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if captured.body.Model != tt.wantModel {
				t.Fatalf("expected model %q, got %q", tt.wantModel, captured.body.Model)
			}
			if captured.body.Temperature != tt.wantTemperature {
				t.Fatalf("expected temperature %v, got %v", tt.wantTemperature, captured.body.Temperature)
			}
			if got := captured.header.Get("X-Title"); got != tt.wantHeader {
				t.Fatalf("expected X-Title %q, got %q", tt.wantHeader, got)
			}
		})
	}
}

func TestClientChatFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		response   string
		wantEmpty  bool
		wantStatus int
	}{
		{
			name:      "no choices",
			status:    http.StatusOK,
			response:  `{"choices": []}`,
			wantEmpty: true,
		},
		{
			name:      "blank content",
			status:    http.StatusOK,
			response:  `{"choices": [{"message": {"content": "  "}}]}`,
			wantEmpty: true,
		},
		{
			name:       "bad status",
			status:     http.StatusTooManyRequests,
			response:   `{"error": "rate limited"}`,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			response:   `not json`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.response, nil)
			client := New(Kimi, "key", "kimi-k2", WithBaseURL(srv.URL))

			_, err := client.Chat(context.Background(), []ai.Message{ai.UserMessage("hi")}, ai.Options{})
			if err == nil {
				t.Fatalf("expected error")
			}

			var providerErr *ai.ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if providerErr.Provider != "kimi" {
				t.Fatalf("expected vendor name, got %q", providerErr.Provider)
			}

			if tt.wantEmpty {
				if !errors.Is(err, ai.ErrEmptyResponse) {
					t.Fatalf("expected empty response error, got %v", err)
				}
				return
			}

			if providerErr.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, providerErr.StatusCode)
			}
			if tt.status != http.StatusOK && !strings.Contains(err.Error(), "rate limited") {
				t.Fatalf("expected body in error, got %v", err)
			}
		})
	}
}

func TestClientMissingUsageReportsZero(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"choices": [{"message": {"content": "ok"}}]}`, nil)
	client := New(OpenAI, "", "gpt-4o-mini", WithBaseURL(srv.URL))

	res, err := client.Chat(context.Background(), []ai.Message{ai.UserMessage("hi")}, ai.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Usage != (ai.Usage{}) {
		t.Fatalf("expected zero usage, got %+v", res.Usage)
	}
}

func TestClientHonoursContextCancellation(t *testing.T) {
	srv := newServer(t, http.StatusOK, okResponse, nil)
	client := New(OpenAI, "key", "gpt-4o", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Chat(ctx, []ai.Message{ai.UserMessage("hi")}, ai.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
