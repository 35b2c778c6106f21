package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/resumekit/internal/advisor"
	"github.com/ziadkadry99/resumekit/internal/config"
	"github.com/ziadkadry99/resumekit/internal/db"
	"github.com/ziadkadry99/resumekit/internal/editor"
	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/render"
	"github.com/ziadkadry99/resumekit/internal/resume"
	"github.com/ziadkadry99/resumekit/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the résumé editor and REST API",
	Long:  `Starts the HTTP server hosting the browser editor, the résumé REST API, the AI endpoints and PDF export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}
		logger := newLogger()

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		pdf := newPDFRenderer(cfg)
		defer pdf.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database, logger)

		registerAllRoutes(srv, database, newAdvisor(cfg, logger), pdf)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logStartup(logger, cfg, database)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires every feature package onto the server router.
func registerAllRoutes(srv *server.Server, database *db.DB, adv *advisor.Advisor, pdf render.PDFRenderer) {
	r := srv.Router()

	resumes := resume.NewStore(database)
	events := history.NewStore(database)

	// AI endpoints and raw HTML to PDF.
	advisor.RegisterRoutes(r, adv)
	render.RegisterRoutes(r, pdf)

	// Résumé REST API with per-résumé suggestions, preview and download.
	resume.RegisterRoutes(r, resumes, events,
		advisor.ResumeRoutes(adv, resumes, events),
		render.ResumeRoutes(resumes, pdf),
	)

	// Editor page and live drag channel.
	editor.New(resumes, events).RegisterRoutes(r)
}

func logStartup(logger *log.Logger, cfg *config.Config, database *db.DB) {
	count, err := resume.NewStore(database).Count(context.Background())
	if err != nil {
		logger.Warn("counting résumés", "err", err)
	}
	logger.Info(fmt.Sprintf("resumekit server %s starting", Version),
		"port", cfg.Port,
		"database", database.Path(),
		"provider", cfg.Provider,
		"resumes", count,
	)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", config.DefaultConfig().Port, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
