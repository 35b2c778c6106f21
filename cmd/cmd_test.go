package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/resumekit/internal/db"
	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/importer"
	"github.com/ziadkadry99/resumekit/internal/layout"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

func setupStores(t *testing.T) (*resume.Store, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return resume.NewStore(database), history.NewStore(database)
}

// Four stacked sections: contact@20, summary@60, experience@140, skills@220.
func editorRects() []layout.Rect {
	return []layout.Rect{
		{ID: "contact", Top: 0, Height: 40},
		{ID: "summary", Top: 40, Height: 40},
		{ID: "experience", Top: 80, Height: 120},
		{ID: "skills", Top: 200, Height: 40},
	}
}

func TestDecodeReorderRequest(t *testing.T) {
	req, err := decodeReorderRequest(strings.NewReader(`{"pointer_y": 12.5, "rects": [{"id": "a", "top": 0, "height": 10}]}`))
	require.NoError(t, err)
	assert.Equal(t, 12.5, req.PointerY)
	require.Len(t, req.Rects, 1)
	assert.Equal(t, "a", req.Rects[0].ID)

	_, err = decodeReorderRequest(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestComputeReorder(t *testing.T) {
	got := computeReorder(reorderRequest{PointerY: 50, Rects: editorRects()})
	assert.Equal(t, "summary", got.Directive.Before)
	assert.Nil(t, got.Sections)

	got = computeReorder(reorderRequest{Section: "skills", PointerY: 50, Rects: editorRects()})
	assert.Equal(t, "summary", got.Directive.Before)
	assert.Equal(t, []string{"contact", "skills", "summary", "experience"}, got.Sections)

	got = computeReorder(reorderRequest{Section: "contact", PointerY: 500, Rects: editorRects()})
	assert.True(t, got.Directive.AtEnd())
	assert.Equal(t, []string{"summary", "experience", "skills", "contact"}, got.Sections)
}

func TestApplyReorder(t *testing.T) {
	store, events := setupStores(t)
	ctx := context.Background()
	created, err := store.Create(ctx, *resume.New("Engineer"))
	require.NoError(t, err)

	res, err := applyReorder(ctx, store, events, created.ID, reorderRequest{Section: "skills", PointerY: 50, Rects: editorRects()})
	require.NoError(t, err)
	assert.Equal(t, []string{"contact", "skills", "summary", "experience"}, res.Sections)

	stored, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.SectionSkills, stored.Sections[1])

	evs, err := events.Query(ctx, history.QueryFilter{ResumeID: created.ID, Action: history.ActionSectionsReordered})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, history.ActorCLI, evs[0].Actor)

	// Dropping a section back where it already is changes nothing.
	_, err = applyReorder(ctx, store, events, created.ID, reorderRequest{Section: "skills", PointerY: 50, Rects: editorRects()})
	require.NoError(t, err)
	evs, err = events.Query(ctx, history.QueryFilter{ResumeID: created.ID, Action: history.ActionSectionsReordered})
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestApplyReorderErrors(t *testing.T) {
	store, events := setupStores(t)
	ctx := context.Background()

	_, err := applyReorder(ctx, store, events, "missing", reorderRequest{Section: "skills"})
	assert.ErrorIs(t, err, resume.ErrNotFound)

	_, err = applyReorder(ctx, store, events, "missing", reorderRequest{Section: "footer"})
	assert.ErrorContains(t, err, "unknown section")
}

func writeResumeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportResumes(t *testing.T) {
	root := t.TempDir()
	writeResumeFile(t, root, "people/jane.json", `{"title": "Jane", "skills": ["Go"], "sections": ["skills"]}`)
	writeResumeFile(t, root, "people/john.json", `{"contact": {"name": "John"}}`)
	writeResumeFile(t, root, "people/broken.json", `{`)
	writeResumeFile(t, root, "notes.txt", `ignored`)

	store, events := setupStores(t)
	ctx := context.Background()
	logger := logging.New(&bytes.Buffer{}, false)
	opts := importer.Options{Root: root, Extensions: []string{"json"}}

	var out bytes.Buffer
	n, err := importResumes(ctx, store, events, opts, true, &out, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "dry run writes nothing")

	n, err = importResumes(ctx, store, events, opts, false, &out, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := store.List(ctx, resume.ListFilter{Title: "john"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "John", list[0].Contact.Name)
	assert.Len(t, list[0].Sections, 4)

	evs, err := events.Query(ctx, history.QueryFilter{ResumeID: list[0].ID})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, history.ActionCreated, evs[0].Action)
	assert.Equal(t, history.ActorCLI, evs[0].Actor)
}

type countingPDF struct{ calls atomic.Int32 }

func (c *countingPDF) PDF(_ context.Context, html []byte) ([]byte, error) {
	c.calls.Add(1)
	return append([]byte("%PDF-"), html[:4]...), nil
}

type recordingReporter struct {
	total    int
	advanced atomic.Int32
	finished bool
}

func (r *recordingReporter) Start(total int) { r.total = total }
func (r *recordingReporter) Advance(string)  { r.advanced.Add(1) }
func (r *recordingReporter) Finish()         { r.finished = true }

func seedResumes(t *testing.T, store *resume.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		r := resume.New(name + " CV")
		r.Contact.Name = name
		_, err := store.Create(context.Background(), *r)
		require.NoError(t, err)
	}
}

func TestExportResumesMarkdown(t *testing.T) {
	store, _ := setupStores(t)
	seedResumes(t, store, "Ada Lovelace", "Alan Turing")
	out := t.TempDir()
	rep := &recordingReporter{}

	written, err := exportResumes(context.Background(), store, exportOptions{
		OutDir:      out,
		Format:      formatMarkdown,
		Concurrency: 2,
		Reporter:    rep,
	})
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, 2, rep.total)
	assert.EqualValues(t, 2, rep.advanced.Load())
	assert.True(t, rep.finished)

	for _, path := range written {
		assert.Equal(t, ".md", filepath.Ext(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "# "), string(data))
	}
}

func TestExportResumesPDF(t *testing.T) {
	store, _ := setupStores(t)
	seedResumes(t, store, "Grace Hopper", "Edsger Dijkstra", "Barbara Liskov")
	pdf := &countingPDF{}

	written, err := exportResumes(context.Background(), store, exportOptions{
		OutDir:      filepath.Join(t.TempDir(), "nested"),
		Format:      formatPDF,
		Title:       "CV",
		Concurrency: 1,
		PDF:         pdf,
	})
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.EqualValues(t, 3, pdf.calls.Load())
	for _, path := range written {
		assert.Contains(t, filepath.Base(path), "-resume-")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	}
}

func TestExportResumesErrors(t *testing.T) {
	store, _ := setupStores(t)
	ctx := context.Background()

	_, err := exportResumes(ctx, store, exportOptions{OutDir: t.TempDir(), Format: "docx"})
	assert.ErrorContains(t, err, "unknown export format")

	_, err = exportResumes(ctx, store, exportOptions{OutDir: t.TempDir(), Format: formatPDF})
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}
