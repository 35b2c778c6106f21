package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".resumekit.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: RESUMEKIT_PDF__CHROME_BIN sets pdf.chrome_bin.
const EnvPrefix = "RESUMEKIT_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (RESUMEKIT_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderOpenRouter: true,
	ProviderOpenAI:     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openrouter, openai", c.Provider)
	}
	if c.AnalyzeTemperature < 0 || c.AnalyzeTemperature > 2 {
		return fmt.Errorf("analyze_temperature must be between 0 and 2")
	}
	if c.ImproveTemperature < 0 || c.ImproveTemperature > 2 {
		return fmt.Errorf("improve_temperature must be between 0 and 2")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}
	if c.ExportConcurrency < 0 {
		return fmt.Errorf("export_concurrency must be non-negative")
	}
	return nil
}

// AnalyzeModelName returns the model used for whole-résumé analysis:
// analyze_model, then model, then the provider preset.
func (c *Config) AnalyzeModelName() string {
	switch {
	case c.AnalyzeModel != "":
		return c.AnalyzeModel
	case c.Model != "":
		return c.Model
	}
	return GetPreset(c.Provider).Analyze
}

// ImproveModelName returns the model used for section rewrites and
// suggestions: improve_model, then model, then the provider preset.
func (c *Config) ImproveModelName() string {
	switch {
	case c.ImproveModel != "":
		return c.ImproveModel
	case c.Model != "":
		return c.Model
	}
	return GetPreset(c.Provider).Improve
}

// DatabasePath returns the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "resumekit.db")
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
