package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/resumekit/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "resumekit",
	Short: "Résumé editor backend with drag-to-reorder sections and AI suggestions",
	Long: `resumekit serves a browser résumé editor: reorder sections by dragging,
add experience and skills, preview the document, ask an AI collaborator for
suggestions and ATS analysis, and download a PDF. The same résumés are
available to AI agents over MCP and to scripts through the CLI.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
