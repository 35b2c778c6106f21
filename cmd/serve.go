package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/resumekit/internal/history"
	mcpserver "github.com/ziadkadry99/resumekit/internal/mcp"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing résumé listing, rendering, section reordering and suggestion tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		logger.Info("resumekit MCP server started on stdio", "database", database.Path())

		srv := mcpserver.NewServer(resume.NewStore(database), history.NewStore(database), newAdvisor(cfg, logger))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
