package llm

import (
	"fmt"
	"os"
)

// Options configures NewProvider.
type Options struct {
	// RequestsPerMinute wraps the provider in a rate limiter when positive.
	RequestsPerMinute int
	OpenRouter        OpenRouterOptions
}

// NewProvider creates an LLM provider for the given provider type and
// default model. Supported provider types: "openrouter", "openai".
func NewProvider(providerType string, model string, opts Options) (Provider, error) {
	var p Provider
	switch providerType {
	case "openrouter":
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		p = NewOpenRouterProvider(apiKey, model, opts.OpenRouter)

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		p = NewOpenAIProvider(apiKey, model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}

	if opts.RequestsPerMinute > 0 {
		p = NewRateLimitedProvider(p, opts.RequestsPerMinute)
	}
	return p, nil
}
