// Package handler contains the HTTP handlers of the exercise tracker.
//
// Handlers parse the request, call a service and write the response. They
// hold no business rules of their own beyond request-shape validation.
package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// HomeHandler renders the landing page with forms for each API operation.
// The template is parsed once at construction.
type HomeHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewHomeHandler parses the embedded templates.
func NewHomeHandler(logger *slog.Logger) (*HomeHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &HomeHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleHome serves GET /.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Exercise Tracker",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
