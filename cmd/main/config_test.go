package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultServerConfig(), cfg.Server)
	require.Equal(t, "index.tmpl.html", cfg.Templates.DefaultTemplate)
	require.Equal(t, bootstrap.DefaultConfig(), *cfg.Bootstrap)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written Config
	require.NoError(t, json.Unmarshal(data, &written))
	require.Equal(t, cfg.Server, written.Server)
}

func TestNewFetcher(t *testing.T) {
	cfg := DefaultServerConfig()
	require.Zero(t, cfg.FetchTimeoutSec)
	require.Nil(t, newFetcher(cfg).Client, "no timeout should use the default client")

	cfg.FetchTimeoutSec = 4
	fetcher := newFetcher(cfg)
	require.NotNil(t, fetcher.Client)
	require.Equal(t, 4*time.Second, fetcher.Client.Timeout)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "server_config": {"log_level": "debug"},
  "template_config": null,
  "bootstrap_config": {"jquery_version": "3.7.1", "include_jquery": "slim", "css_url": "https://cdn.example/b.css"}
}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, ":7277", cfg.Server.ServerAddr)
	require.NotNil(t, cfg.Templates)
	require.Equal(t, "3.7.1", cfg.Bootstrap.JQueryVersion)
	require.Equal(t, bootstrap.JQuerySlim, *cfg.Bootstrap.IncludeJQuery)
	require.Equal(t, &bootstrap.URLRecord{URL: "https://cdn.example/b.css"}, cfg.Bootstrap.CSSURL)
}

func TestLoadConfig_Environment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("INCLUDE_BOOTSTRAP_SERVER_ADDR", ":9000")
	t.Setenv("INCLUDE_BOOTSTRAP_FETCH_TIMEOUT_SEC", "3")
	t.Setenv("INCLUDE_BOOTSTRAP_USE_DB", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Server.ServerAddr)
	require.Equal(t, ":7278", cfg.Server.ApiAddr)
	require.Equal(t, 3, cfg.Server.FetchTimeoutSec)
	require.True(t, cfg.Bootstrap.UseDB)
}

func TestLoadConfig_BootstrapFile(t *testing.T) {
	dir := t.TempDir()
	bootstrapPath := filepath.Join(dir, "bootstrap.yaml")
	require.NoError(t, os.WriteFile(bootstrapPath, []byte("bootstrap_version: \"5.3.3\"\nminified: false\n"), 0644))

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_config": {"bootstrap_file": "`+filepath.ToSlash(bootstrapPath)+`"}}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "5.3.3", cfg.Bootstrap.BootstrapVersion)
	require.NotNil(t, cfg.Bootstrap.Minified)
	require.False(t, *cfg.Bootstrap.Minified)

	require.NoError(t, os.WriteFile(path, []byte(`{"server_config": {"bootstrap_file": "missing.toml"}}`), 0644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_config": `), 0644))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "failed to parse config file")
}

func TestValidateBootstrap(t *testing.T) {
	testCases := []struct {
		name     string
		patterns map[string]string
		wantErr  bool
	}{
		{"none", nil, false},
		{"valid", map[string]string{"css_url": "https://cdn.example/{version}/bootstrap{min}.css"}, false},
		{"unknown slot", map[string]string{"logo_url": "https://cdn.example/{version}.png"}, true},
		{"theme has no pattern", map[string]string{"theme_url": "https://cdn.example/{version}.css"}, true},
		{"missing version", map[string]string{"css_url": "https://cdn.example/bootstrap.css"}, true},
		{"unknown placeholder", map[string]string{"css_url": "https://cdn.example/{version}/{theme}.css"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateBootstrap(&bootstrap.Config{URLPatterns: tc.patterns})
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigManager_Update(t *testing.T) {
	s := setupTestServer(t, map[string]string{
		"index.tmpl.html": `{{bootstrapJQueryURL}}`,
	})

	cfg := s.cm.Get()
	bc := *cfg.Bootstrap
	bc.JQueryVersion = "3.7.1"
	cfg.Bootstrap = &bc
	require.NoError(t, s.cm.Update(cfg))

	rec := doRequest(t, s.siteMux, "GET", "/", nil, "")
	require.Equal(t, "https://code.jquery.com/jquery-3.7.1.min.js", rec.Body.String())

	data, err := os.ReadFile(s.cm.configPath)
	require.NoError(t, err)
	var saved Config
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Equal(t, "3.7.1", saved.Bootstrap.JQueryVersion)

	bad := s.cm.Get()
	badBootstrap := *bad.Bootstrap
	badBootstrap.URLPatterns = map[string]string{"jquery_url": "https://code.jquery.com/jquery.js"}
	bad.Bootstrap = &badBootstrap
	require.Error(t, s.cm.Update(bad))
	require.Equal(t, "3.7.1", s.cm.Get().Bootstrap.JQueryVersion)

	badTemplates := s.cm.Get()
	badTemplates.Templates = nil
	require.Error(t, s.cm.Update(badTemplates))
}
