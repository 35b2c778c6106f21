package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/layout"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

var (
	reorderFile    string
	reorderResume  string
	reorderSection string
)

var reorderCmd = &cobra.Command{
	Use:   "reorder",
	Short: "Compute where a dragged section would land",
	Long: `Reads {"pointer_y": N, "rects": [{"id", "top", "height"}...]} from stdin
(or --file) and prints the insertion directive as JSON.

With --resume and --section the section is moved in the stored résumé and the
new order is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if reorderFile != "" {
			f, err := os.Open(reorderFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		req, err := decodeReorderRequest(in)
		if err != nil {
			return err
		}
		if reorderSection != "" {
			req.Section = reorderSection
		}

		if reorderResume == "" {
			return writeIndented(cmd.OutOrStdout(), computeReorder(req))
		}

		if req.Section == "" {
			return fmt.Errorf("--section is required with --resume")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		result, err := applyReorder(cmd.Context(), resume.NewStore(database), history.NewStore(database), reorderResume, req)
		if err != nil {
			return err
		}
		return writeIndented(cmd.OutOrStdout(), result)
	},
}

type reorderRequest struct {
	Section  string        `json:"section,omitempty"`
	PointerY float64       `json:"pointer_y"`
	Rects    []layout.Rect `json:"rects"`
}

type reorderResult struct {
	Directive layout.Directive `json:"directive"`
	Sections  []string         `json:"sections,omitempty"`
}

func decodeReorderRequest(r io.Reader) (reorderRequest, error) {
	var req reorderRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decoding reorder input: %w", err)
	}
	return req, nil
}

// computeReorder returns the directive for req. When a section is named its
// own rectangle is excluded from the candidates.
func computeReorder(req reorderRequest) reorderResult {
	rects := req.Rects
	if req.Section != "" {
		rects = layout.Without(rects, req.Section)
	}
	res := reorderResult{Directive: layout.InsertionPoint(rects, req.PointerY)}
	if req.Section != "" {
		order := make([]string, 0, len(req.Rects))
		for _, r := range req.Rects {
			order = append(order, r.ID)
		}
		res.Sections = layout.Apply(order, req.Section, res.Directive)
	}
	return res
}

// applyReorder moves req.Section in the stored résumé and records the change.
func applyReorder(ctx context.Context, store *resume.Store, events resume.Recorder, id string, req reorderRequest) (reorderResult, error) {
	section := resume.SectionKind(req.Section)
	if !resume.ValidSection(section) {
		return reorderResult{}, fmt.Errorf("unknown section %q", req.Section)
	}

	r, err := store.Get(ctx, id)
	if err != nil {
		return reorderResult{}, err
	}
	previous := resume.SectionIDs(r.Sections)

	d := layout.InsertionPoint(layout.Without(req.Rects, req.Section), req.PointerY)
	if err := r.MoveSection(section, d); err != nil {
		return reorderResult{}, err
	}
	next := resume.SectionIDs(r.Sections)
	if slices.Equal(previous, next) {
		return reorderResult{Directive: d, Sections: next}, nil
	}

	if err := store.Update(ctx, r); err != nil {
		return reorderResult{}, err
	}
	if events != nil {
		prevJSON, _ := json.Marshal(previous)
		nextJSON, _ := json.Marshal(next)
		if err := events.Log(ctx, history.Event{
			ResumeID:      r.ID,
			Actor:         history.ActorCLI,
			Action:        history.ActionSectionsReordered,
			Summary:       "moved " + req.Section,
			PreviousValue: string(prevJSON),
			NewValue:      string(nextJSON),
		}); err != nil {
			newLogger().Warn("recording history", "resume", r.ID, "err", err)
		}
	}
	return reorderResult{Directive: d, Sections: next}, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	reorderCmd.Flags().StringVarP(&reorderFile, "file", "f", "", "Read input from a file instead of stdin")
	reorderCmd.Flags().StringVar(&reorderResume, "resume", "", "Résumé ID to update")
	reorderCmd.Flags().StringVar(&reorderSection, "section", "", "Dragged section")
	rootCmd.AddCommand(reorderCmd)
}
