package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attune-dev/attune/internal/provider"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := New(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Headers: map[string]string{"X-Extra": "yes"},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `},"finish_reason":"stop"}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	var gotReq oaiRequest
	var gotAuth, gotExtra string

	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotExtra = r.Header.Get("X-Extra")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(completionResponse("hello there")))
	})

	got, err := g.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello there" {
		t.Errorf("content = %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotExtra != "yes" {
		t.Errorf("extra header = %q", gotExtra)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "hi" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, provider.ErrRateLimit},
		{"server error", http.StatusInternalServerError, "boom", provider.ErrProviderDown},
		{"bad gateway", http.StatusBadGateway, "bad", provider.ErrProviderDown},
		{"context length", http.StatusBadRequest, `{"error":{"code":"context_length_exceeded"}}`, provider.ErrContextLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Generate(context.Background(), "hi")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_PlainBadRequest(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"malformed"}`))
	})

	_, err := g.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("want error")
	}
	if errors.Is(err, provider.ErrContextLength) || errors.Is(err, provider.ErrRateLimit) {
		t.Errorf("plain 400 wrongly classified: %v", err)
	}
}

func TestGenerate_EmptyResponse(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := g.Generate(context.Background(), "hi")
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completionResponse("late")))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "hi")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	var gotReq oaiRequest
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(completionResponse("pong")))
	})

	if err := g.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if gotReq.MaxTokens != 1 {
		t.Errorf("max_tokens = %d, want 1", gotReq.MaxTokens)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{BaseURL: "http://ok", Model: "m"}, nil); err == nil {
		t.Error("missing api_key accepted")
	}
	if _, err := New(Config{BaseURL: "not a url", APIKey: "k", Model: "m"}, nil); err == nil {
		t.Error("invalid base_url accepted")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com", APIKey: "k", Model: "m"}, nil); err == nil {
		t.Error("non-http scheme accepted")
	}
}

func TestModelName(t *testing.T) {
	t.Parallel()

	g, err := New(Config{BaseURL: "http://localhost:1234", APIKey: "k", Model: "mistral-small"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.ModelName() != "mistral-small" {
		t.Errorf("ModelName = %q", g.ModelName())
	}
}
