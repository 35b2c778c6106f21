package config

import "time"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOpenAI     ProviderType = "openai"
)

// Config is the top-level resumekit configuration, corresponding to .resumekit.yml.
type Config struct {
	Provider           ProviderType  `yaml:"provider" koanf:"provider"`
	Model              string        `yaml:"model" koanf:"model"`
	AnalyzeModel       string        `yaml:"analyze_model" koanf:"analyze_model"`
	ImproveModel       string        `yaml:"improve_model" koanf:"improve_model"`
	AnalyzeTemperature float64       `yaml:"analyze_temperature" koanf:"analyze_temperature"`
	ImproveTemperature float64       `yaml:"improve_temperature" koanf:"improve_temperature"`
	Referer            string        `yaml:"referer" koanf:"referer"`
	RequestsPerMinute  int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	RequestTimeout     time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	DataDir            string        `yaml:"data_dir" koanf:"data_dir"`
	Port               int           `yaml:"port" koanf:"port"`
	AllowAllOrigins    bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	PDF                PDFConfig     `yaml:"pdf" koanf:"pdf"`
	Import             ImportConfig  `yaml:"import" koanf:"import"`
	ExportConcurrency  int           `yaml:"export_concurrency" koanf:"export_concurrency"`
}

// PDFConfig controls the headless browser used for PDF export.
type PDFConfig struct {
	ChromeBin  string        `yaml:"chrome_bin" koanf:"chrome_bin"`
	ControlURL string        `yaml:"control_url" koanf:"control_url"`
	Headless   bool          `yaml:"headless" koanf:"headless"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ImportConfig selects which files `resumekit import` picks up.
type ImportConfig struct {
	Include    []string `yaml:"include" koanf:"include"`
	Exclude    []string `yaml:"exclude" koanf:"exclude"`
	Extensions []string `yaml:"extensions" koanf:"extensions"`
}
