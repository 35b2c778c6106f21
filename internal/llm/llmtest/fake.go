// Package llmtest provides an in-memory llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ziadkadry99/resumekit/internal/llm"
)

// Fake records calls and returns a canned response or error.
type Fake struct {
	mu       sync.Mutex
	Calls    []llm.CompletionRequest
	Response string
	Err      error
}

// New returns a Fake answering every request with response.
func New(response string) *Fake {
	return &Fake{Response: response}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.CompletionResponse{
		Content:      f.Response,
		InputTokens:  10,
		OutputTokens: 20,
		Model:        req.Model,
		FinishReason: "stop",
	}, nil
}

// CallCount returns the number of Complete calls.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastCall returns the most recent request. It panics if there was none.
func (f *Fake) LastCall() llm.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[len(f.Calls)-1]
}
