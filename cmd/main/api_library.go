package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/CTAG07/IncludeBootstrap/pkg/library"
)

// LibraryAPI manages persisted library entries.
type LibraryAPI struct {
	store  *library.Store
	logger *slog.Logger
}

// LibraryRequest is the JSON body for creating or replacing an entry. The
// URL and integrity are always derived by the server.
type LibraryRequest struct {
	Library    bootstrap.Library `json:"library"`
	Version    string            `json:"version"`
	URLPattern string            `json:"url_pattern"`
	Active     bool              `json:"active"`
}

// LibraryResponse is a saved entry, with a warning when saving it
// deactivated other entries.
type LibraryResponse struct {
	library.Entry
	Warning string `json:"warning,omitempty"`
}

func NewLibraryAPI(store *library.Store, logger *slog.Logger) *LibraryAPI {
	return &LibraryAPI{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/libraries endpoints.
func (l *LibraryAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/libraries", l.handleLibraries)
	mux.HandleFunc("/api/libraries/", l.handleLibraryByID)
}

func (l *LibraryAPI) handleLibraries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !hasScope(r, scopeLibrariesRead) {
			respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeLibrariesRead+"' scope")
			return
		}
		entries, err := l.store.List(r.Context())
		if err != nil {
			l.logger.Error("Failed to list library entries", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to list library entries")
			return
		}
		if entries == nil {
			entries = []library.Entry{}
		}
		respondWithJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		if !hasScope(r, scopeLibrariesWrite) {
			respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeLibrariesWrite+"' scope")
			return
		}
		l.save(w, r, 0)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (l *LibraryAPI) handleLibraryByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/libraries/"), "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid library entry ID format in URL")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !hasScope(r, scopeLibrariesRead) {
			respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeLibrariesRead+"' scope")
			return
		}
		entry, err := l.store.Get(r.Context(), id)
		if err != nil {
			l.respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entry)
	case http.MethodPut:
		if !hasScope(r, scopeLibrariesWrite) {
			respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeLibrariesWrite+"' scope")
			return
		}
		l.save(w, r, id)
	case http.MethodDelete:
		if !hasScope(r, scopeLibrariesWrite) {
			respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeLibrariesWrite+"' scope")
			return
		}
		if err = l.store.Delete(r.Context(), id); err != nil {
			l.respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// save creates an entry when id is 0 and replaces entry id otherwise.
func (l *LibraryAPI) save(w http.ResponseWriter, r *http.Request, id int64) {
	var req LibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	result, err := l.store.Save(r.Context(), library.Entry{
		ID:         id,
		Library:    req.Library,
		Version:    req.Version,
		URLPattern: req.URLPattern,
		Active:     req.Active,
	})
	if err != nil {
		l.respondWithStoreError(w, err)
		return
	}

	resp := LibraryResponse{Entry: result.Entry}
	if result.Deactivated > 0 {
		resp.Warning = fmt.Sprintf("Deactivated %d other %s entries", result.Deactivated, result.Entry.Library.Label())
	}
	code := http.StatusOK
	if id == 0 {
		code = http.StatusCreated
	}
	respondWithJSON(w, code, resp)
}

// respondWithStoreError maps store errors to status codes. Validation and
// fetch failures carry a message meant for the administrator.
func (l *LibraryAPI) respondWithStoreError(w http.ResponseWriter, err error) {
	var templateErr *bootstrap.TemplateError
	var fetchErr *library.FetchError
	switch {
	case errors.Is(err, library.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Library entry not found")
	case errors.Is(err, library.ErrInvalidEntry), errors.As(err, &templateErr), errors.As(err, &fetchErr):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		l.logger.Error("Library store operation failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Library store operation failed")
	}
}
