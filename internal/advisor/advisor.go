// Package advisor produces writing suggestions, ATS analysis and section
// rewrites for résumés, backed by an LLM provider when one is configured.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/resumekit/internal/llm"
	"github.com/ziadkadry99/resumekit/internal/logging"
)

// ErrNoProvider is returned by Analyze and Improve when no LLM is configured.
var ErrNoProvider = errors.New("API key not configured")

const (
	analyzeSystemPrompt = "You are a professional resume analyzer. Provide specific, actionable suggestions to improve this resume for ATS compatibility and hiring potential."
	improveSystemPrompt = "You are a professional resume writer. Improve this %s section to be more impactful and ATS-friendly."
	suggestSystemPrompt = "You are a professional resume coach. Reply with exactly three short, numbered suggestions for improving the given %s section. No preamble."

	defaultSectionType = "general"
)

// Options tunes model choice and sampling per task.
type Options struct {
	AnalyzeModel       string
	ImproveModel       string
	AnalyzeTemperature float64
	ImproveTemperature float64
	// Timeout bounds a single LLM call. Zero means no extra deadline.
	Timeout time.Duration
}

// Advisor answers suggestion, analysis and rewrite requests.
type Advisor struct {
	provider llm.Provider
	opts     Options
}

// New creates an Advisor. provider may be nil, in which case Suggest falls
// back to the built-in table and Analyze/Improve return ErrNoProvider.
func New(provider llm.Provider, opts Options) *Advisor {
	return &Advisor{provider: provider, opts: opts}
}

// Enabled reports whether an LLM provider is configured.
func (a *Advisor) Enabled() bool {
	return a.provider != nil
}

// Suggest returns up to three suggestions for improving content in the given
// field. Unknown fields yield an empty list. Provider failures are logged and
// answered from the built-in table.
func (a *Advisor) Suggest(ctx context.Context, field, content string) []string {
	fallback, ok := builtinSuggestions[field]
	if !ok {
		return []string{}
	}
	if a.provider == nil || strings.TrimSpace(content) == "" {
		return clone(fallback)
	}

	text, err := a.complete(ctx, a.opts.ImproveModel, a.opts.ImproveTemperature,
		llm.System(fmt.Sprintf(suggestSystemPrompt, field)),
		llm.User(content),
	)
	if err != nil {
		logging.FromContext(ctx).Warn("suggestion request failed, using built-ins", "field", field, "err", err)
		return clone(fallback)
	}

	parsed := parseSuggestions(text)
	if len(parsed) == 0 {
		return clone(fallback)
	}
	return parsed
}

// Analyze asks the model for ATS-oriented feedback on the full résumé text.
func (a *Advisor) Analyze(ctx context.Context, resumeText string) (string, error) {
	if a.provider == nil {
		return "", ErrNoProvider
	}
	return a.complete(ctx, a.opts.AnalyzeModel, a.opts.AnalyzeTemperature,
		llm.System(analyzeSystemPrompt),
		llm.User("Please analyze this resume and provide improvement suggestions:\n\n"+resumeText),
	)
}

// Improve rewrites a single section. An empty sectionType means "general".
func (a *Advisor) Improve(ctx context.Context, sectionText, sectionType string) (string, error) {
	if a.provider == nil {
		return "", ErrNoProvider
	}
	if strings.TrimSpace(sectionType) == "" {
		sectionType = defaultSectionType
	}
	return a.complete(ctx, a.opts.ImproveModel, a.opts.ImproveTemperature,
		llm.System(fmt.Sprintf(improveSystemPrompt, sectionType)),
		llm.User(sectionText),
	)
}

func (a *Advisor) complete(ctx context.Context, model string, temperature float64, msgs ...llm.Message) (string, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	logging.FromContext(ctx).Debug("llm completion",
		"provider", a.provider.Name(),
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens),
	)
	return strings.TrimSpace(resp.Content), nil
}
