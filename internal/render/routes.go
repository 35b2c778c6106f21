package render

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/resumekit/internal/logging"
	"github.com/ziadkadry99/resumekit/internal/resume"
)

// RegisterRoutes mounts the raw HTML to PDF endpoint. pdf may be nil, in
// which case the endpoint reports that no browser is available.
func RegisterRoutes(r chi.Router, pdf PDFRenderer) {
	r.Post("/generate-pdf", handleGeneratePDF(pdf))
}

// ResumeRoutes returns the preview and download endpoints mounted under
// /api/resumes/{id}.
func ResumeRoutes(store *resume.Store, pdf PDFRenderer) resume.Extension {
	return func(r chi.Router) {
		r.Get("/markdown", handleMarkdown(store))
		r.Get("/preview", handlePreview(store))
		r.Get("/pdf", handlePDF(store, pdf))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pdfStatus(err error) int {
	if errors.Is(err, ErrNoBrowser) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type generateRequest struct {
	HTMLContent string `json:"html_content"`
}

func handleGeneratePDF(pdf PDFRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
			return
		}
		if pdf == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": "PDF generation failed: " + ErrNoBrowser.Error()})
			return
		}

		data, err := pdf.PDF(r.Context(), []byte(req.HTMLContent))
		if err != nil {
			logging.FromContext(r.Context()).Error("generating pdf", "err", err)
			writeJSON(w, pdfStatus(err), map[string]any{"success": false, "error": "PDF generation failed: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"pdf":     base64.StdEncoding.EncodeToString(data),
		})
	}
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

func handleMarkdown(store *resume.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadResume(w, r, store)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(Markdown(res)))
	}
}

func handlePreview(store *resume.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := loadResume(w, r, store)
		if !ok {
			return
		}
		page, err := HTML(res)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

func handlePDF(store *resume.Store, pdf PDFRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pdf == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": ErrNoBrowser.Error()})
			return
		}
		res, ok := loadResume(w, r, store)
		if !ok {
			return
		}
		page, err := HTML(res)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		data, err := pdf.PDF(r.Context(), page)
		if err != nil {
			logging.FromContext(r.Context()).Error("rendering pdf", "resume", res.ID, "err", err)
			writeJSON(w, pdfStatus(err), map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(res)+`"`)
		w.Write(data)
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a download name such as "jane-doe-resume.pdf".
func Filename(r *resume.Resume) string {
	base := r.Contact.Name
	if strings.TrimSpace(base) == "" {
		base = r.Title
	}
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		return "resume.pdf"
	}
	return slug + "-resume.pdf"
}
