package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CTAG07/IncludeBootstrap/pkg/library"
	"github.com/CTAG07/IncludeBootstrap/pkg/templating"
)

// PageInput is the data site templates are executed with.
type PageInput struct {
	Path  string
	Query url.Values
}

type Server struct {
	cm          *ConfigManager
	db          *sql.DB
	logger      *slog.Logger
	tm          *templating.TemplateManager
	store       *library.Store
	authAPI     *AuthAPI
	templateAPI *TemplateAPI
	libraryAPI  *LibraryAPI
	settingsAPI *SettingsAPI
	serverAPI   *ServerAPI
	siteMux     *http.ServeMux
	apiMux      *http.ServeMux
}

func NewServer(cm *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	config := cm.Get()

	store, err := library.NewStore(db, library.WithFetcher(newFetcher(config.Server)), library.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create library store: %w", err)
	}
	cm.SetEntrySource(store)

	if err = os.MkdirAll(filepath.Join(config.Server.DataDir, "templates"), 0755); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}
	tm, err := templating.NewTemplateManager(logger, cm.Resolver(), config.Templates, config.Server.DataDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	cm.SetTemplateManager(tm)

	server := &Server{
		cm:          cm,
		db:          db,
		logger:      logger,
		tm:          tm,
		store:       store,
		authAPI:     NewAuthAPI(db, logger),
		templateAPI: NewTemplateAPI(tm, logger),
		libraryAPI:  NewLibraryAPI(store, logger),
		settingsAPI: NewSettingsAPI(tm, logger),
		serverAPI:   NewServerAPI(cm, db, actionChan, logger),
		siteMux:     http.NewServeMux(),
		apiMux:      http.NewServeMux(),
	}

	apiMux := http.NewServeMux()

	server.authAPI.RegisterRoutes(apiMux)
	server.templateAPI.RegisterRoutes(apiMux)
	server.libraryAPI.RegisterRoutes(apiMux)
	server.settingsAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// Make sure api functions must pass through authentication first
	authedAPI := server.authAPI.Authenticate(apiMux)
	// ... except for the health check, which is unauthed so something like docker can use it
	server.apiMux.HandleFunc("/api/health", server.serverAPI.handleHealthCheck)
	server.apiMux.Handle("/api/", authedAPI)

	server.siteMux.HandleFunc("/favicon.ico", handleFavicon)
	server.siteMux.HandleFunc("/", server.handleSite)

	return server, nil
}

// newFetcher builds the integrity fetcher. Without a configured timeout it
// uses the default client.
func newFetcher(cfg *ServerConfig) library.HTTPFetcher {
	if cfg.FetchTimeoutSec <= 0 {
		return library.HTTPFetcher{}
	}
	return library.HTTPFetcher{
		Client: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSec) * time.Second},
	}
}

// Close releases the prepared statements of the library store. The database
// itself belongs to the caller.
func (s *Server) Close() {
	s.store.Close()
}

// handleSite renders the page named by the request path, or the default
// template for "/".
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = s.tm.GetConfig().DefaultTemplate
	}
	if strings.Contains(name, "/") || !s.tm.HasTemplate(name) {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	err := s.tm.Execute(r.Context(), &buf, name, PageInput{Path: r.URL.Path, Query: r.URL.Query()})
	if err != nil {
		s.logger.Error("Failed to execute template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.logger.Debug("Served page", "template", name, "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleFavicon answers favicon requests with no content, so they are not
// looked up as templates.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
