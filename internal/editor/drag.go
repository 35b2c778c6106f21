package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/layout"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message types exchanged on /ws/drag.
const (
	msgStart  = "start"
	msgMove   = "move"
	msgEnd    = "end"
	msgCancel = "cancel"

	msgStarted   = "started"
	msgMoved     = "moved"
	msgEnded     = "ended"
	msgCancelled = "cancelled"
	msgError     = "error"
)

// dragRequest is the incoming message format.
type dragRequest struct {
	Type     string        `json:"type"`
	Section  string        `json:"section,omitempty"`
	PointerY float64       `json:"pointer_y,omitempty"`
	Rects    []layout.Rect `json:"rects,omitempty"`
}

// dragResponse is the outgoing message format.
type dragResponse struct {
	Type      string            `json:"type"`
	Directive *layout.Directive `json:"directive,omitempty"`
	Order     []string          `json:"order,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// dragConn is the state of one editor connection. It owns at most one
// active DragSession at a time.
type dragConn struct {
	editor   *Editor
	conn     *websocket.Conn
	resumeID string
	logger   *log.Logger
	session  *layout.DragSession
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (e *Editor) handleDrag(w http.ResponseWriter, r *http.Request) {
	resumeID := r.URL.Query().Get("resume")
	if resumeID == "" {
		writeError(w, http.StatusBadRequest, "resume query parameter is required")
		return
	}
	if _, err := e.store.Get(r.Context(), resumeID); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resume "+resumeID+" not found")
			return
		}
		logging.FromContext(r.Context()).Error("loading resume for drag", "resume", resumeID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger := logging.FromContext(r.Context()).With("resume", resumeID)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	dc := &dragConn{editor: e, conn: conn, resumeID: resumeID, logger: logger}
	defer dc.abandon()

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", "err", err)
			}
			return
		}

		var req dragRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			dc.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case msgStart:
			dc.start(ctx, req)
		case msgMove:
			dc.move(req)
		case msgEnd:
			dc.end(ctx)
		case msgCancel:
			dc.cancel()
		default:
			dc.sendError("unknown message type: " + req.Type)
		}
	}
}

func (dc *dragConn) active() bool {
	return dc.session != nil && !dc.session.Closed()
}

func (dc *dragConn) start(ctx context.Context, req dragRequest) {
	if dc.active() {
		dc.sendError("drag already in progress")
		return
	}
	res, err := dc.editor.store.Get(ctx, dc.resumeID)
	if err != nil {
		dc.sendError("loading resume: " + err.Error())
		return
	}
	session, err := layout.StartDrag(resume.SectionIDs(res.Sections), req.Section)
	if err != nil {
		dc.sendError(err.Error())
		return
	}
	dc.session = session
	dc.logger.Debug("drag started", "section", req.Section)
	dc.send(dragResponse{Type: msgStarted, Order: session.Order()})
}

func (dc *dragConn) move(req dragRequest) {
	if !dc.active() {
		dc.sendError("no drag in progress")
		return
	}
	d, err := dc.session.Move(req.Rects, req.PointerY)
	if err != nil {
		dc.sendError(err.Error())
		return
	}
	dc.send(dragResponse{Type: msgMoved, Directive: &d, Order: dc.session.Order()})
}

func (dc *dragConn) end(ctx context.Context) {
	if !dc.active() {
		dc.sendError("no drag in progress")
		return
	}
	dragged := dc.session.Dragged()
	order, err := dc.session.End()
	dc.session = nil
	if err != nil {
		dc.sendError(err.Error())
		return
	}

	res, err := dc.editor.store.Get(ctx, dc.resumeID)
	if err != nil {
		dc.sendError("loading resume: " + err.Error())
		return
	}
	previous := res.Sections
	if err := res.SetSections(resume.SectionKinds(order)); err != nil {
		// The order changed underneath the gesture; report the stored one.
		dc.sendError(err.Error())
		return
	}
	if err := dc.editor.store.Update(ctx, res); err != nil {
		dc.sendError("saving order: " + err.Error())
		return
	}
	dc.record(ctx, dragged, previous, res.Sections)
	dc.logger.Debug("drag ended", "section", dragged, "order", order)
	dc.send(dragResponse{Type: msgEnded, Order: order})
}

func (dc *dragConn) cancel() {
	if !dc.active() {
		dc.sendError("no drag in progress")
		return
	}
	order := dc.session.Cancel()
	dc.session = nil
	dc.send(dragResponse{Type: msgCancelled, Order: order})
}

// abandon cancels a gesture left open when the connection goes away.
func (dc *dragConn) abandon() {
	if dc.active() {
		dc.logger.Debug("drag abandoned", "section", dc.session.Dragged())
		dc.session.Cancel()
		dc.session = nil
	}
}

func (dc *dragConn) record(ctx context.Context, dragged string, previous, next []resume.SectionKind) {
	if dc.editor.events == nil {
		return
	}
	prev, _ := json.Marshal(previous)
	cur, _ := json.Marshal(next)
	if string(prev) == string(cur) {
		return
	}
	err := dc.editor.events.Log(ctx, history.Event{
		ResumeID:      dc.resumeID,
		Actor:         history.ActorEditor,
		Action:        history.ActionSectionsReordered,
		Summary:       "dragged " + dragged,
		PreviousValue: string(prev),
		NewValue:      string(cur),
	})
	if err != nil {
		dc.logger.Warn("recording history", "err", err)
	}
}

func (dc *dragConn) send(resp dragResponse) {
	if err := dc.conn.WriteJSON(resp); err != nil {
		dc.logger.Warn("websocket write", "err", err)
	}
}

func (dc *dragConn) sendError(message string) {
	dc.send(dragResponse{Type: msgError, Error: message})
}
