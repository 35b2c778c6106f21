package config

import "time"

// ModelPreset names the models used for the two advisor tasks.
type ModelPreset struct {
	Analyze string
	Improve string
}

// modelPresets holds the per-provider defaults. The OpenRouter pair matches
// what the editor shipped with: a paid model for whole-résumé analysis and
// a free one for section rewrites.
var modelPresets = map[ProviderType]ModelPreset{
	ProviderOpenRouter: {Analyze: "openai/gpt-3.5-turbo", Improve: "qwen/qwq-32b:free"},
	ProviderOpenAI:     {Analyze: "gpt-4o-mini", Improve: "gpt-4o-mini"},
}

// DefaultExcludes are glob patterns skipped by `resumekit import`.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/.resumekit/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenRouter,
		AnalyzeTemperature: 0.7,
		ImproveTemperature: 0.5,
		Referer:            "http://localhost:5000",
		RequestsPerMinute:  20,
		RequestTimeout:     30 * time.Second,
		DataDir:            ".resumekit",
		Port:               5000,
		PDF: PDFConfig{
			Headless: true,
			Timeout:  30 * time.Second,
		},
		Import: ImportConfig{
			Include:    []string{"**/*.json"},
			Exclude:    DefaultExcludes,
			Extensions: []string{"json"},
		},
		ExportConcurrency: 2,
	}
}

// GetPreset returns the model preset for the given provider. Unknown
// providers fall back to the OpenRouter preset.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderOpenRouter]
}
