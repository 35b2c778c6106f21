package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/resumekit/internal/advisor"
	"github.com/ziadkadry99/resumekit/internal/config"
	"github.com/ziadkadry99/resumekit/internal/db"
	"github.com/ziadkadry99/resumekit/internal/llm"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `resumekit init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns the stderr logger shared by a command. Stdout stays free
// for command output and the MCP protocol.
func newLogger() *log.Logger {
	return logging.New(os.Stderr, verbose)
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	path := cfg.DatabasePath()
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return database, nil
}

// createLLMProvider builds the configured provider. A missing API key is not
// fatal: the advisor then runs with its built-in suggestions only.
func createLLMProvider(cfg *config.Config, logger *log.Logger) llm.Provider {
	if os.Getenv(config.APIKeyEnvVar(cfg.Provider)) == "" {
		logger.Warn("no API key set, AI analysis disabled", "env", config.APIKeyEnvVar(cfg.Provider))
		return nil
	}
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.AnalyzeModelName(), llm.Options{
		RequestsPerMinute: cfg.RequestsPerMinute,
		OpenRouter: llm.OpenRouterOptions{
			Referer: cfg.Referer,
			Title:   "resumekit",
		},
	})
	if err != nil {
		logger.Warn("creating LLM provider, AI analysis disabled", "err", err)
		return nil
	}
	return provider
}

func newAdvisor(cfg *config.Config, logger *log.Logger) *advisor.Advisor {
	return advisor.New(createLLMProvider(cfg, logger), advisor.Options{
		AnalyzeModel:       cfg.AnalyzeModelName(),
		ImproveModel:       cfg.ImproveModelName(),
		AnalyzeTemperature: cfg.AnalyzeTemperature,
		ImproveTemperature: cfg.ImproveTemperature,
		Timeout:            cfg.RequestTimeout,
	})
}

func newPDFRenderer(cfg *config.Config) *render.ChromePDF {
	return render.NewChromePDF(render.ChromeOptions{
		Bin:        cfg.PDF.ChromeBin,
		ControlURL: cfg.PDF.ControlURL,
		Headless:   cfg.PDF.Headless,
		Timeout:    cfg.PDF.Timeout,
	})
}
