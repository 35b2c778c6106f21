package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/layout"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/render"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

func (s *Server) handleListResumes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	list, err := s.store.List(ctx, resume.ListFilter{
		Title: request.GetString("title", ""),
		Limit: limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing résumés failed: %v", err)), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No résumés found. Create one in the editor or run `resumekit import`."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d résumé(s):\n", len(list))
	for _, r := range list {
		fmt.Fprintf(&sb, "- %s  %s (updated %s, sections: %s)\n",
			r.ID, r.Title, r.UpdatedAt.Format("2006-01-02 15:04"),
			strings.Join(resume.SectionIDs(r.Sections), ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) loadResume(ctx context.Context, request mcp.CallToolRequest) (*resume.Resume, *mcp.CallToolResult) {
	id, err := request.RequireString("id")
	if err != nil {
		return nil, mcp.NewToolResultError("missing required parameter: id")
	}
	res, err := s.store.Get(ctx, id)
	if errors.Is(err, resume.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("No résumé with id %q. Use list_resumes to find one.", id))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("loading résumé failed: %v", err))
	}
	return res, nil
}

func (s *Server) handleGetResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, errResult := s.loadResume(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(render.Markdown(res)), nil
}

// geometry reads pointer_y and rects from the tool arguments.
func geometry(request mcp.CallToolRequest) (float64, []layout.Rect, error) {
	y, err := request.RequireFloat("pointer_y")
	if err != nil {
		return 0, nil, errors.New("missing required parameter: pointer_y")
	}
	raw, ok := request.GetArguments()["rects"]
	if !ok {
		return 0, nil, errors.New("missing required parameter: rects")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid rects: %w", err)
	}
	var rects []layout.Rect
	if err := json.Unmarshal(data, &rects); err != nil {
		return 0, nil, fmt.Errorf("invalid rects: %w", err)
	}
	return y, rects, nil
}

func describe(d layout.Directive) string {
	if d.AtEnd() {
		return "Place at end."
	}
	return fmt.Sprintf("Place before %q (candidate %d).", d.Before, d.Index)
}

func (s *Server) handleInsertionPoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	y, rects, err := geometry(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(describe(layout.InsertionPoint(rects, y))), nil
}

func (s *Server) handleMoveSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := request.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section"), nil
	}
	y, rects, err := geometry(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, errResult := s.loadResume(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	before := resume.SectionIDs(res.Sections)
	d := layout.InsertionPoint(layout.Without(rects, section), y)
	if err := res.MoveSection(resume.SectionKind(section), d); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Update(ctx, res); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving résumé failed: %v", err)), nil
	}

	after := resume.SectionIDs(res.Sections)
	if s.events != nil && strings.Join(before, ",") != strings.Join(after, ",") {
		prev, _ := json.Marshal(before)
		next, _ := json.Marshal(after)
		// History is best effort; the move itself has been saved.
		if err := s.events.Log(ctx, history.Event{
			ResumeID:      res.ID,
			Actor:         history.ActorAgent,
			Action:        history.ActionSectionsReordered,
			Summary:       "moved " + section,
			PreviousValue: string(prev),
			NewValue:      string(next),
		}); err != nil {
			logging.FromContext(ctx).Warn("recording history", "resume", res.ID, "err", err)
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s New order: %s", describe(d), strings.Join(after, ", "))), nil
}

func (s *Server) handleSuggest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: field"), nil
	}
	res, errResult := s.loadResume(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	suggestions := s.advisor.Suggest(ctx, field, res.FieldContent(field))
	if len(suggestions) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no suggestions for field %q; use summary or experience", field)), nil
	}
	var sb strings.Builder
	for i, sg := range suggestions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, sg)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
