package resume

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/layout"
	"github.com/ziadkadry99/resumekit/internal/logging"
)

// Recorder receives edit events. *history.Store satisfies it.
type Recorder interface {
	Log(ctx context.Context, ev history.Event) error
	Query(ctx context.Context, filter history.QueryFilter) ([]history.Event, error)
}

// Extension mounts additional routes under /api/resumes/{id}. Handlers read
// the résumé ID with chi.URLParam(r, "id").
type Extension func(r chi.Router)

// RegisterRoutes mounts the résumé API routes.
func RegisterRoutes(r chi.Router, store *Store, events Recorder, extensions ...Extension) {
	r.Route("/api/resumes", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleCreate(store, events))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleGet(store))
			r.Put("/", handleUpdate(store, events))
			r.Delete("/", handleDelete(store))
			r.Post("/experience", handleAddExperience(store, events))
			r.Post("/skills", handleAddSkill(store, events))
			r.Delete("/skills/{skill}", handleRemoveSkill(store, events))
			r.Put("/sections", handleSetSections(store, events))
			r.Post("/sections/move", handleMoveSection(store, events))
			r.Get("/history", handleHistory(events))
			for _, ext := range extensions {
				ext(r)
			}
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps ErrNotFound to 404 and everything else to 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	logging.FromContext(r.Context()).Error("resume store", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// record logs an edit event; failures are logged but never fail the request.
func record(r *http.Request, events Recorder, ev history.Event) {
	if events == nil {
		return
	}
	if err := events.Log(r.Context(), ev); err != nil {
		logging.FromContext(r.Context()).Warn("recording history", "resume", ev.ResumeID, "action", ev.Action, "err", err)
	}
}

func sectionsJSON(kinds []SectionKind) string {
	data, _ := json.Marshal(kinds)
	return string(data)
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{Title: r.URL.Query().Get("title")}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		resumes, err := store.List(r.Context(), filter)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resumes)
	}
}

func handleCreate(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := New("")
		if err := json.NewDecoder(r.Body).Decode(in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(in.Title) == "" {
			in.Title = "Untitled resume"
		}
		// The server assigns IDs; a client-supplied one is ignored.
		in.ID = ""

		created, err := store.Create(r.Context(), *in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		record(r, events, history.Event{
			ResumeID: created.ID,
			Action:   history.ActionCreated,
			Summary:  "created " + created.Title,
		})
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleUpdate(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		current, err := store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		var in Resume
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		in.ID = id
		in.CreatedAt = current.CreatedAt
		if in.Sections == nil {
			in.Sections = current.Sections
		}

		if err := store.Update(r.Context(), &in); err != nil {
			writeStoreError(w, r, err)
			return
		}
		record(r, events, history.Event{
			ResumeID: id,
			Action:   history.ActionUpdated,
			Summary:  "document replaced",
		})
		writeJSON(w, http.StatusOK, in)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAddExperience(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		// An empty body adds a blank entry, like the editor's button.
		var e Experience
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		idx := res.AddExperience(e)
		if err := store.Update(r.Context(), res); err != nil {
			writeStoreError(w, r, err)
			return
		}
		record(r, events, history.Event{
			ResumeID: res.ID,
			Action:   history.ActionExperienceAdded,
			Summary:  "added experience entry " + strconv.Itoa(idx+1),
			NewValue: strings.TrimSpace(e.JobTitle + " " + e.Company),
		})
		writeJSON(w, http.StatusCreated, res)
	}
}

type skillRequest struct {
	Skill string `json:"skill"`
}

func handleAddSkill(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Skill) == "" {
			writeError(w, http.StatusBadRequest, "skill is required")
			return
		}

		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		if res.AddSkill(req.Skill) {
			if err := store.Update(r.Context(), res); err != nil {
				writeStoreError(w, r, err)
				return
			}
			record(r, events, history.Event{
				ResumeID: res.ID,
				Action:   history.ActionSkillAdded,
				Summary:  "added skill",
				NewValue: strings.TrimSpace(req.Skill),
			})
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleRemoveSkill(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill := chi.URLParam(r, "skill")
		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		if !res.RemoveSkill(skill) {
			writeError(w, http.StatusNotFound, "skill not found")
			return
		}
		if err := store.Update(r.Context(), res); err != nil {
			writeStoreError(w, r, err)
			return
		}
		record(r, events, history.Event{
			ResumeID:      res.ID,
			Action:        history.ActionSkillRemoved,
			Summary:       "removed skill",
			PreviousValue: skill,
		})
		writeJSON(w, http.StatusOK, res)
	}
}

type sectionsRequest struct {
	Sections []SectionKind `json:"sections"`
}

func handleSetSections(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sectionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		previous := sectionsJSON(res.Sections)
		if err := res.SetSections(req.Sections); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.Update(r.Context(), res); err != nil {
			writeStoreError(w, r, err)
			return
		}
		record(r, events, history.Event{
			ResumeID:      res.ID,
			Action:        history.ActionSectionsReordered,
			Summary:       "section order replaced",
			PreviousValue: previous,
			NewValue:      sectionsJSON(res.Sections),
		})
		writeJSON(w, http.StatusOK, res)
	}
}

type moveRequest struct {
	Section  SectionKind   `json:"section"`
	PointerY float64       `json:"pointer_y"`
	Rects    []layout.Rect `json:"rects"`
}

type moveResponse struct {
	Directive layout.Directive `json:"directive"`
	Sections  []SectionKind    `json:"sections"`
}

func handleMoveSection(store *Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !ValidSection(req.Section) {
			writeError(w, http.StatusBadRequest, "unknown section")
			return
		}

		res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		previous := sectionsJSON(res.Sections)

		d := layout.InsertionPoint(layout.Without(req.Rects, string(req.Section)), req.PointerY)
		if err := res.MoveSection(req.Section, d); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.Update(r.Context(), res); err != nil {
			writeStoreError(w, r, err)
			return
		}
		if next := sectionsJSON(res.Sections); next != previous {
			record(r, events, history.Event{
				ResumeID:      res.ID,
				Action:        history.ActionSectionsReordered,
				Summary:       "moved " + string(req.Section),
				PreviousValue: previous,
				NewValue:      next,
			})
		}
		writeJSON(w, http.StatusOK, moveResponse{Directive: d, Sections: res.Sections})
	}
}

func handleHistory(events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if events == nil {
			writeJSON(w, http.StatusOK, []history.Event{})
			return
		}
		filter := history.QueryFilter{
			ResumeID: chi.URLParam(r, "id"),
			Action:   history.Action(r.URL.Query().Get("action")),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		evs, err := events.Query(r.Context(), filter)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, evs)
	}
}
