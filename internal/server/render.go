package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/appspark/waitlist/internal/web"
)

type layoutData struct {
	Title   string
	CSS     template.CSS
	Content template.HTML
}

// render executes a content template inside the layout and writes it with
// status. Nothing is written until both templates succeed.
func (s *Server) render(w http.ResponseWriter, status int, title, contentTemplate string, data any) {
	cssBytes, err := web.Assets.ReadFile("assets/style.css")
	if err != nil {
		http.Error(w, "Failed to load styles", http.StatusInternalServerError)
		return
	}

	contentTmpl, err := template.ParseFS(web.Templates, "templates/"+contentTemplate)
	if err != nil {
		s.log.Error().Err(err).Str("template", contentTemplate).Msg("failed to parse template")
		http.Error(w, "Failed to parse template", http.StatusInternalServerError)
		return
	}

	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, data); err != nil {
		s.log.Error().Err(err).Str("template", contentTemplate).Msg("failed to render template")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	layoutTmpl, err := template.ParseFS(web.Templates, "templates/layout.html")
	if err != nil {
		http.Error(w, "Failed to parse layout", http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	err = layoutTmpl.Execute(&page, layoutData{
		Title:   title,
		CSS:     template.CSS(cssBytes),
		Content: template.HTML(contentBuf.String()),
	})
	if err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page.WriteTo(w)
}

type errorData struct {
	Message  string
	RetryURL string
}

func (s *Server) renderError(w http.ResponseWriter, status int, message, retryURL string) {
	s.render(w, status, "Error", "error.html", errorData{Message: message, RetryURL: retryURL})
}

func (s *Server) renderNotFound(w http.ResponseWriter) {
	s.render(w, http.StatusNotFound, "Not Found", "notfound.html", nil)
}
