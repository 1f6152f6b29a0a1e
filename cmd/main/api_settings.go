package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/CTAG07/IncludeBootstrap/pkg/templating"
)

// SettingsAPI exposes the effective settings and the tags they render to.
type SettingsAPI struct {
	tm     *templating.TemplateManager
	logger *slog.Logger
}

// RenderResponse holds the rendered tags for one set of options.
type RenderResponse struct {
	CSS         string `json:"css"`
	Fontawesome string `json:"fontawesome"`
	JQuery      string `json:"jquery"`
	Javascript  string `json:"javascript"`
}

func NewSettingsAPI(tm *templating.TemplateManager, logger *slog.Logger) *SettingsAPI {
	return &SettingsAPI{
		tm:     tm,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for /api/settings and /api/render.
func (a *SettingsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/settings", a.handleSettings)
	mux.HandleFunc("/api/settings/", a.handleSetting)
	mux.HandleFunc("/api/render", a.handleRender)
}

func (a *SettingsAPI) authorize(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	if !hasScope(r, scopeSettingsRead) {
		respondWithError(w, http.StatusForbidden, "Forbidden: requires '"+scopeSettingsRead+"' scope")
		return false
	}
	return true
}

// handleSettings returns every resolved setting.
func (a *SettingsAPI) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r) {
		return
	}
	respondWithJSON(w, http.StatusOK, a.tm.Resolver().Resolve(r.Context()))
}

// handleSetting returns a single resolved setting by name.
func (a *SettingsAPI) handleSetting(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r) {
		return
	}
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/settings/"), "/")
	value, ok := a.tm.Resolver().Resolve(r.Context()).Get(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown setting '"+name+"'")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"name": name, "value": value})
}

// handleRender renders the tags for the jquery, popover and bundle query
// parameters, with the same meaning as the template arguments.
func (a *SettingsAPI) handleRender(w http.ResponseWriter, r *http.Request) {
	if !a.authorize(w, r) {
		return
	}
	query := r.URL.Query()
	jquery := bootstrap.ParseJQueryMode(query.Get("jquery"))
	opts := bootstrap.JavascriptOptions{
		JQuery:  jquery,
		Popover: bootstrap.ParseJQueryMode(query.Get("popover")).Enabled(),
		Bundle:  bootstrap.ParseJQueryMode(query.Get("bundle")).Enabled(),
	}

	s := a.tm.Resolver().Resolve(r.Context())
	if !query.Has("jquery") {
		jquery = bootstrap.JQueryFull
	}
	respondWithJSON(w, http.StatusOK, RenderResponse{
		CSS:         string(bootstrap.AssembleCSS(s)),
		Fontawesome: string(bootstrap.RenderFontawesome(s)),
		JQuery:      string(bootstrap.RenderJQuery(s, jquery)),
		Javascript:  string(bootstrap.AssembleJavascript(s, opts)),
	})
}
