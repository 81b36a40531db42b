package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-yaml"
)

// DataAPI exposes the stored values. Changes are written to the database and
// then reloaded into the live store.
type DataAPI struct {
	app    *app
	logger *slog.Logger
}

func NewDataAPI(a *app, logger *slog.Logger) *DataAPI {
	return &DataAPI{app: a, logger: logger}
}

// RegisterRoutes sets up the routing for the /api/data endpoints.
func (d *DataAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/data", d.handleData)
	mux.HandleFunc("/api/data/", d.handleKey)
}

// handleData lists every value on GET and applies a merge patch on PATCH.
func (d *DataAPI) handleData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondWithJSON(w, http.StatusOK, d.app.store.Snapshot())
	case http.MethodPatch:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
			return
		}
		patch, err := yaml.YAMLToJSON(body)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid patch: %v", err))
			return
		}
		if err = d.app.data.Patch(r.Context(), patch); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to apply patch: %v", err))
			return
		}
		if !d.reload(w, r) {
			return
		}
		d.logger.Info("Data patched via API")
		respondWithJSON(w, http.StatusOK, d.app.store.Snapshot())
	default:
		w.Header().Set("Allow", "GET, PATCH")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleKey reads, replaces or removes a single value.
func (d *DataAPI) handleKey(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/data/")
	if key == "" {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		v, ok := d.app.store.Lookup(key)
		if !ok {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("No value stored under '%s'", key))
			return
		}
		respondWithJSON(w, http.StatusOK, v)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
			return
		}
		var v any
		if err = yaml.Unmarshal(body, &v); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid value: %v", err))
			return
		}
		if err = d.app.data.Put(r.Context(), key, v); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store value: %v", err))
			return
		}
		if d.reload(w, r) {
			w.WriteHeader(http.StatusNoContent)
		}
	case http.MethodDelete:
		if err := d.app.data.Delete(r.Context(), key); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete value: %v", err))
			return
		}
		if d.reload(w, r) {
			w.WriteHeader(http.StatusNoContent)
		}
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *DataAPI) reload(w http.ResponseWriter, r *http.Request) bool {
	if err := d.app.reload(r.Context()); err != nil {
		d.logger.Error("Failed to reload store", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to reload data: %v", err))
		return false
	}
	return true
}
