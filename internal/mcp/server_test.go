package mcp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/resumekit/internal/advisor"
	"github.com/ziadkadry99/resumekit/internal/db"
	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

func setupServer(t *testing.T) (*Server, *resume.Store, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := resume.NewStore(database)
	events := history.NewStore(database)
	return NewServer(store, events, advisor.New(nil, advisor.Options{})), store, events
}

func createResume(t *testing.T, store *resume.Store, title string) *resume.Resume {
	t.Helper()
	r := resume.New(title)
	r.Contact.Name = "Jane Doe"
	r.Summary = "Engineer"
	created, err := store.Create(context.Background(), *r)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// defaultRects lays the default sections out 40px tall, top to bottom.
func defaultRects() []any {
	ids := []string{"contact", "summary", "experience", "skills"}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = map[string]any{"id": id, "top": float64(i * 40), "height": 40.0}
	}
	return out
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listResumesTool, "list_resumes"},
		{getResumeTool, "get_resume"},
		{insertionPointTool, "insertion_point"},
		{moveSectionTool, "move_section"},
		{suggestTool, "suggest"},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, store, _ := setupServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != store {
		t.Error("store not set correctly")
	}
}

func TestHandleListResumes(t *testing.T) {
	srv, store, _ := setupServer(t)
	ctx := context.Background()

	result, err := srv.handleListResumes(ctx, call(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "No résumés found") {
		t.Errorf("empty store text = %q", resultText(t, result))
	}

	a := createResume(t, store, "Go developer")
	createResume(t, store, "Data analyst")

	result, _ = srv.handleListResumes(ctx, call(map[string]any{"title": "Go"}))
	text := resultText(t, result)
	if !strings.Contains(text, a.ID) || strings.Contains(text, "Data analyst") {
		t.Errorf("title filter text = %q", text)
	}
}

func TestHandleGetResume(t *testing.T) {
	srv, store, _ := setupServer(t)
	ctx := context.Background()
	r := createResume(t, store, "Test")

	result, err := srv.handleGetResume(ctx, call(map[string]any{"id": r.ID}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.HasPrefix(resultText(t, result), "# Jane Doe") {
		t.Errorf("markdown = %q", resultText(t, result))
	}

	result, _ = srv.handleGetResume(ctx, call(map[string]any{"id": "missing"}))
	if !result.IsError {
		t.Error("expected error for unknown id")
	}
	result, _ = srv.handleGetResume(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing id")
	}
}

func TestHandleInsertionPoint(t *testing.T) {
	srv, _, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		y    float64
		want string
	}{
		{35, `Place before "summary"`},
		{5, `Place before "contact"`},
		{500, "Place at end."},
	}
	for _, tt := range tests {
		result, err := srv.handleInsertionPoint(ctx, call(map[string]any{
			"pointer_y": tt.y,
			"rects":     defaultRects(),
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, result); !strings.Contains(got, tt.want) {
			t.Errorf("y=%v: got %q, want %q", tt.y, got, tt.want)
		}
	}

	result, _ := srv.handleInsertionPoint(ctx, call(map[string]any{"pointer_y": 10.0, "rects": "nope"}))
	if !result.IsError {
		t.Error("expected error for malformed rects")
	}
	result, _ = srv.handleInsertionPoint(ctx, call(map[string]any{"rects": defaultRects()}))
	if !result.IsError {
		t.Error("expected error for missing pointer_y")
	}
}

func TestHandleMoveSection(t *testing.T) {
	srv, store, events := setupServer(t)
	ctx := context.Background()
	r := createResume(t, store, "Test")

	result, err := srv.handleMoveSection(ctx, call(map[string]any{
		"id":        r.ID,
		"section":   "skills",
		"pointer_y": 5.0,
		"rects":     defaultRects(),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	got, err := store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Sections[0] != resume.SectionSkills {
		t.Errorf("sections = %v, want skills first", got.Sections)
	}

	evs, err := events.Query(ctx, history.QueryFilter{ResumeID: r.ID, Action: history.ActionSectionsReordered})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(evs) != 1 || evs[0].Actor != history.ActorAgent {
		t.Errorf("expected one agent reorder event, got %+v", evs)
	}

	result, _ = srv.handleMoveSection(ctx, call(map[string]any{
		"id": r.ID, "section": "footer", "pointer_y": 5.0, "rects": defaultRects(),
	}))
	if !result.IsError {
		t.Error("expected error for unknown section")
	}
}

type failingRecorder struct{}

func (failingRecorder) Log(context.Context, history.Event) error {
	return errors.New("disk full")
}

func (failingRecorder) Query(context.Context, history.QueryFilter) ([]history.Event, error) {
	return nil, nil
}

func TestHandleMoveSectionHistoryFailureIsLogged(t *testing.T) {
	_, store, _ := setupServer(t)
	srv := NewServer(store, failingRecorder{}, advisor.New(nil, advisor.Options{}))
	r := createResume(t, store, "Test")

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&logs, false))
	result, err := srv.handleMoveSection(ctx, call(map[string]any{
		"id":        r.ID,
		"section":   "skills",
		"pointer_y": 5.0,
		"rects":     defaultRects(),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("move should succeed without history: %s", resultText(t, result))
	}

	got, err := store.Get(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Sections[0] != resume.SectionSkills {
		t.Errorf("sections = %v, want skills first", got.Sections)
	}
	if !strings.Contains(logs.String(), "recording history") || !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected history warning in logs, got %q", logs.String())
	}
}

func TestHandleSuggest(t *testing.T) {
	srv, store, _ := setupServer(t)
	ctx := context.Background()
	r := createResume(t, store, "Test")

	result, err := srv.handleSuggest(ctx, call(map[string]any{"id": r.ID, "field": "summary"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "1. ") || strings.Count(text, "\n") != 3 {
		t.Errorf("suggestions = %q", text)
	}

	result, _ = srv.handleSuggest(ctx, call(map[string]any{"id": r.ID, "field": "education"}))
	if !result.IsError {
		t.Error("expected error for unknown field")
	}
}
