package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/CTAG07/Sometimes/pkg/templating"
)

// TemplateAPI holds the dependencies for the template and render handlers.
type TemplateAPI struct {
	tm      *templating.TemplateManager
	headers map[string]string
	logger  *slog.Logger
}

// NewTemplateAPI creates a new instance of the TemplateAPI. headers are set
// on every rendered page.
func NewTemplateAPI(tm *templating.TemplateManager, headers map[string]string, logger *slog.Logger) *TemplateAPI {
	return &TemplateAPI{
		tm:      tm,
		headers: headers,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for /render/ and the /api/templates endpoints.
func (t *TemplateAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/render/", t.handleRender)
	mux.HandleFunc("/api/templates/refresh", t.handleRefresh)
	mux.HandleFunc("/api/templates/test", t.handleTest)
	mux.HandleFunc("/api/templates", t.handleList)
}

// ambientFromQuery reads repeated "if" and "unless" parameters. A
// comma-separated value names several keys at once.
func ambientFromQuery(q url.Values) []sometimes.Ambient {
	var out []sometimes.Ambient
	for _, param := range []struct {
		name  string
		value bool
	}{{"if", true}, {"unless", false}} {
		for _, v := range q[param.name] {
			for _, key := range strings.Split(v, ",") {
				if key = strings.TrimSpace(key); key != "" {
					out = append(out, sometimes.Cond(key, param.value))
				}
			}
		}
	}
	return out
}

// handleRender renders the named template with ambient conditions from the query.
func (t *TemplateAPI) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/render/")
	if name == "" || strings.Contains(name, "/") {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	var buf bytes.Buffer
	if err := t.tm.Execute(&buf, name, ambientFromQuery(r.URL.Query())...); err != nil {
		if errors.Is(err, templating.ErrTemplateNotFound) {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Template '%s' not found", name))
			return
		}
		t.logger.Error("Failed to render template", "template", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render template: %v", err))
		return
	}
	t.logger.Debug("Serving rendered page", "template", name, "remote_addr", r.RemoteAddr)
	t.setPageHeaders(w)
	_, _ = buf.WriteTo(w)
}

func (t *TemplateAPI) setPageHeaders(w http.ResponseWriter) {
	for k, v := range t.headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
}

// handleRefresh triggers a manual refresh of templates from disk.
func (t *TemplateAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := t.tm.Refresh(); err != nil {
		t.logger.Error("API triggered refresh failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh templates: %v", err))
		return
	}
	t.logger.Info("Templates refreshed via API")
	w.WriteHeader(http.StatusNoContent)
}

// handleList returns a list of all available template names.
func (t *TemplateAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, t.tm.GetTemplateNames())
}

// handleTest renders a template definition from the request body without saving it.
func (t *TemplateAPI) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	var buf bytes.Buffer
	if err = t.tm.ExecuteTemplateString(&buf, string(body), ambientFromQuery(r.URL.Query())...); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Template execution failed: %v", err))
		return
	}
	t.setPageHeaders(w)
	_, _ = buf.WriteTo(w)
}
