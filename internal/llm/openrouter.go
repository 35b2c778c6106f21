package llm

import (
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterOptions carries the attribution headers OpenRouter shows in its
// dashboard.
type OpenRouterOptions struct {
	Referer string
	Title   string
	BaseURL string
}

// NewOpenRouterProvider creates a provider that routes requests through
// OpenRouter. It reuses the OpenAI client with a different base URL.
func NewOpenRouterProvider(apiKey string, model string, opts OpenRouterOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = OpenRouterBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": opts.Referer,
				"X-Title":      opts.Title,
			},
		},
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openrouter",
	}
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
