package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, p := range []string{"openrouter", "openai"} {
		_, err := NewProvider(p, "some-model", Options{})
		if err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("anthropic", "some-model", Options{})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesProviders(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")

	for _, name := range []string{"openrouter", "openai"} {
		provider, err := NewProvider(name, "gpt-4o-mini", Options{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if provider.Name() != name {
			t.Errorf("expected name %q, got %q", name, provider.Name())
		}
	}
}

func TestFactoryWrapsRateLimiter(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	provider, err := NewProvider("openrouter", "m", Options{RequestsPerMinute: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rl, ok := provider.(*RateLimitedProvider)
	if !ok {
		t.Fatalf("expected *RateLimitedProvider, got %T", provider)
	}
	if rl.Unwrap().Name() != "openrouter" {
		t.Errorf("unexpected wrapped provider %q", rl.Unwrap().Name())
	}
}

func TestOpenRouterSendsAttributionHeaders(t *testing.T) {
	var gotReferer, gotTitle, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"qwen/qwq-32b:free",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Sharper summary"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider("secret", "qwen/qwq-32b:free", OpenRouterOptions{
		Referer: "http://localhost:5000",
		Title:   "resumekit",
		BaseURL: srv.URL,
	})

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{System("You are a writer."), User("improve me")},
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "Sharper summary" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 4 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if gotReferer != "http://localhost:5000" || gotTitle != "resumekit" {
		t.Errorf("headers: referer=%q title=%q", gotReferer, gotTitle)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["model"] != "qwen/qwq-32b:free" {
		t.Errorf("default model not applied: %v", gotBody["model"])
	}
}

func TestEmptyChoicesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider("k", "m", OpenRouterOptions{BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{User("x")}}); err != ErrEmptyResponse {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	resp, err := rl.Complete(context.Background(), CompletionRequest{
		Messages: []Message{User("hello")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{Messages: []Message{User("hello")}}

	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// Third must wait ~30s, which the deadline does not allow.
	if _, err := rl.Complete(ctx, req); err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", mock.CallCount())
	}
}

func TestEstimateCost(t *testing.T) {
	// gpt-3.5-turbo: $0.50/1M input, $1.50/1M output
	cost := EstimateCost("openai/gpt-3.5-turbo", 1_000_000, 1_000_000)
	if cost < 1.99 || cost > 2.01 {
		t.Errorf("expected cost ~$2.00, got $%.2f", cost)
	}
	if c := EstimateCost("qwen/qwq-32b:free", 1000, 1000); c != 0 {
		t.Errorf("free model cost = %f", c)
	}
	if c := EstimateCost("unknown-model", 1000, 500); c != 0 {
		t.Errorf("expected 0 for unknown model, got %f", c)
	}
}
