// Package editor serves the browser editor and its live drag channel.
package editor

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/resumekit/internal/resume"
)

//go:embed index.html
var indexHTML []byte

// Editor hosts the editor page and one drag session per websocket.
type Editor struct {
	store  *resume.Store
	events resume.Recorder
}

// New creates an Editor. events may be nil.
func New(store *resume.Store, events resume.Recorder) *Editor {
	return &Editor{store: store, events: events}
}

// RegisterRoutes mounts the editor page and the drag websocket.
func (e *Editor) RegisterRoutes(r chi.Router) {
	r.Get("/", e.ServeIndex)
	r.Get("/ws/drag", e.handleDrag)
}

// ServeIndex serves the embedded editor page.
func (e *Editor) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
