package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/importer"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

var (
	importRoot   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import [pattern...]",
	Short: "Import résumé JSON files into the database",
	Long: `Walks --root and imports every résumé JSON file matching the given glob
patterns (doublestar syntax, e.g. "resumes/**/*.json"). Without patterns the
import.include patterns from the config are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		opts := importer.Options{
			Root:       importRoot,
			Include:    cfg.Import.Include,
			Exclude:    cfg.Import.Exclude,
			Extensions: cfg.Import.Extensions,
		}
		if len(args) > 0 {
			opts.Include = args
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := importResumes(cmd.Context(), resume.NewStore(database), history.NewStore(database), opts, importDryRun, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d résumé(s).\n", verb, n)
		return nil
	},
}

// importResumes loads every matching file and creates a résumé for it. Files
// that fail to decode are logged and skipped.
func importResumes(ctx context.Context, store *resume.Store, events resume.Recorder, opts importer.Options, dryRun bool, out io.Writer, logger *log.Logger) (int, error) {
	paths, err := importer.Find(opts)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, rel := range paths {
		r, err := importer.Load(filepath.Join(opts.Root, filepath.FromSlash(rel)))
		if err != nil {
			logger.Warn("skipping file", "path", rel, "err", err)
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "  %s  %s\n", rel, r.Title)
			imported++
			continue
		}

		created, err := store.Create(ctx, *r)
		if err != nil {
			return imported, fmt.Errorf("importing %s: %w", rel, err)
		}
		if events != nil {
			if err := events.Log(ctx, history.Event{
				ResumeID: created.ID,
				Actor:    history.ActorCLI,
				Action:   history.ActionCreated,
				Summary:  "imported from " + rel,
			}); err != nil {
				logger.Warn("recording history", "resume", created.ID, "err", err)
			}
		}
		fmt.Fprintf(out, "  %s  %s -> %s\n", rel, created.Title, created.ID)
		imported++
	}
	return imported, nil
}

func init() {
	importCmd.Flags().StringVar(&importRoot, "root", ".", "Directory to search for résumé files")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "List matching files without importing them")
	rootCmd.AddCommand(importCmd)
}
