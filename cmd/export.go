package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/resumekit/internal/progress"
	"github.com/ziadkadry99/resumekit/internal/render"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

// Export formats.
const (
	formatPDF      = "pdf"
	formatHTML     = "html"
	formatMarkdown = "md"
)

var (
	exportOut    string
	exportFormat string
	exportTitle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored résumés as PDF, HTML or Markdown files",
	Long:  `Renders every stored résumé (optionally filtered by title) into --out. PDF export drives a headless Chrome; several résumés are rendered concurrently (export_concurrency).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if exportOut == "" {
			exportOut = filepath.Join(cfg.DataDir, "exports")
		}

		var pdf render.PDFRenderer
		if exportFormat == formatPDF {
			chrome := newPDFRenderer(cfg)
			defer chrome.Close()
			pdf = chrome
		}

		written, err := exportResumes(cmd.Context(), resume.NewStore(database), exportOptions{
			OutDir:      exportOut,
			Format:      exportFormat,
			Title:       exportTitle,
			Concurrency: cfg.ExportConcurrency,
			PDF:         pdf,
			Reporter:    progress.NewReporter("Exporting"),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d résumé(s) to %s\n", len(written), exportOut)
		return nil
	},
}

type exportOptions struct {
	OutDir      string
	Format      string
	Title       string
	Concurrency int
	PDF         render.PDFRenderer
	Reporter    progress.Reporter
}

// exportResumes renders matching résumés into opts.OutDir and returns the
// written paths in list order. The first failure cancels the remaining work.
func exportResumes(ctx context.Context, store *resume.Store, opts exportOptions) ([]string, error) {
	switch opts.Format {
	case formatPDF, formatHTML, formatMarkdown:
	default:
		return nil, fmt.Errorf("unknown export format %q (want pdf, html or md)", opts.Format)
	}
	if opts.Format == formatPDF && opts.PDF == nil {
		return nil, render.ErrNoBrowser
	}

	list, err := store.List(ctx, resume.ListFilter{Title: opts.Title})
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	if opts.Reporter != nil {
		opts.Reporter.Start(len(list))
		defer opts.Reporter.Finish()
	}

	written := make([]string, len(list))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i := range list {
		r := &list[i]
		g.Go(func() error {
			data, err := renderAs(gctx, r, opts.Format, opts.PDF)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", r.ID, err)
			}
			name := strings.TrimSuffix(render.Filename(r), ".pdf") + "-" + shortID(r.ID) + "." + opts.Format
			path := filepath.Join(opts.OutDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			written[i] = path
			if opts.Reporter != nil {
				opts.Reporter.Advance(name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

func renderAs(ctx context.Context, r *resume.Resume, format string, pdf render.PDFRenderer) ([]byte, error) {
	if format == formatMarkdown {
		return []byte(render.Markdown(r)), nil
	}
	page, err := render.HTML(r)
	if err != nil || format == formatHTML {
		return page, err
	}
	return pdf.PDF(ctx, page)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default <data_dir>/exports)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatPDF, "Output format: pdf, html or md")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "Only export résumés whose title contains this text")
	rootCmd.AddCommand(exportCmd)
}
