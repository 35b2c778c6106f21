package advisor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/resumekit/internal/history"
	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

// RegisterRoutes mounts the analysis and rewrite endpoints used by the
// editor's AI buttons.
func RegisterRoutes(r chi.Router, a *Advisor) {
	r.Post("/analyze", handleAnalyze(a))
	r.Post("/improve", handleImprove(a))
}

// ResumeRoutes returns the per-résumé suggestion endpoints, mounted under
// /api/resumes/{id}.
func ResumeRoutes(a *Advisor, store *resume.Store, events resume.Recorder) resume.Extension {
	return func(r chi.Router) {
		r.Get("/suggestions/{field}", handleSuggestions(a, store))
		r.Post("/suggestions/{field}/apply", handleApply(store, events))
	}
}

// result is the wire shape of the AI endpoints: success plus either a
// payload field or an error message.
type result map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, ErrNoProvider) {
		status = http.StatusServiceUnavailable
	} else {
		logging.FromContext(r.Context()).Error("advisor", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, result{"success": false, "error": err.Error()})
}

type analyzeRequest struct {
	ResumeText string `json:"resume_text"`
}

func handleAnalyze(a *Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, result{"success": false, "error": "invalid request body"})
			return
		}
		suggestions, err := a.Analyze(r.Context(), req.ResumeText)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result{"success": true, "suggestions": suggestions})
	}
}

type improveRequest struct {
	SectionText string `json:"section_text"`
	SectionType string `json:"section_type"`
}

func handleImprove(a *Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req improveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, result{"success": false, "error": "invalid request body"})
			return
		}
		improved, err := a.Improve(r.Context(), req.SectionText, req.SectionType)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result{"success": true, "improved_text": improved})
	}
}

func knownField(field string) bool {
	_, ok := builtinSuggestions[field]
	return ok
}

func loadResume(w http.ResponseWriter, r *http.Request, store *resume.Store) (*resume.Resume, bool) {
	res, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, resume.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return nil, false
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("loading resume", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return res, true
}

type suggestionsResponse struct {
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions"`
}

func handleSuggestions(a *Advisor, store *resume.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := chi.URLParam(r, "field")
		if !knownField(field) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown field"})
			return
		}
		res, ok := loadResume(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, suggestionsResponse{
			Field:       field,
			Suggestions: a.Suggest(r.Context(), field, res.FieldContent(field)),
		})
	}
}

type applyRequest struct {
	Text string `json:"text"`
}

func handleApply(store *resume.Store, events resume.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := chi.URLParam(r, "field")
		if !knownField(field) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown field"})
			return
		}
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
			return
		}

		res, ok := loadResume(w, r, store)
		if !ok {
			return
		}
		previous := res.FieldContent(field)
		if err := res.SetFieldContent(field, req.Text); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := store.Update(r.Context(), res); err != nil {
			logging.FromContext(r.Context()).Error("saving suggestion", "resume", res.ID, "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		if events != nil {
			err := events.Log(r.Context(), history.Event{
				ResumeID:      res.ID,
				Action:        history.ActionSuggestionApplied,
				Summary:       "applied suggestion to " + field,
				PreviousValue: previous,
				NewValue:      req.Text,
			})
			if err != nil {
				logging.FromContext(r.Context()).Warn("recording history", "resume", res.ID, "err", err)
			}
		}
		writeJSON(w, http.StatusOK, res)
	}
}
