package templating

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
)

// countingSource is an entry source that counts how often settings are
// resolved with use_db enabled.
type countingSource struct {
	mu      sync.Mutex
	calls   int
	entries []bootstrap.ActiveEntry
}

func (c *countingSource) ActiveEntries(context.Context) ([]bootstrap.ActiveEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.entries, nil
}

func (c *countingSource) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var defaultTestFiles = map[string]string{
	"dummy.tmpl.html": `{{define "dummy.tmpl.html"}}Hello{{end}}`,
}

// setupTestManager creates a TemplateManager for a single test's scope with
// the given files in its template directory.
func setupTestManager(tb testing.TB, resolver *bootstrap.Resolver, files map[string]string) *TemplateManager {
	tb.Helper()

	dataDir := tb.TempDir()
	templatesPath := filepath.Join(dataDir, "templates")
	if err := os.Mkdir(templatesPath, 0755); err != nil {
		tb.Fatalf("failed to create templates dir: %v", err)
	}
	if files == nil {
		files = defaultTestFiles
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(templatesPath, name), []byte(content), 0644); err != nil {
			tb.Fatalf("failed to write template %s: %v", name, err)
		}
	}

	if resolver == nil {
		resolver = bootstrap.NewResolver(bootstrap.DefaultConfig())
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm, err := NewTemplateManager(logger, resolver, DefaultConfig(), dataDir)
	if err != nil {
		tb.Fatalf("NewTemplateManager failed: %v", err)
	}
	return tm
}

func defaultSettings() bootstrap.Settings {
	return bootstrap.NewResolver(bootstrap.DefaultConfig()).Resolve(context.Background())
}
