package library

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// fakeCDN serves "/<library>/<version>/asset.js" for a few known versions and
// 404s everything else. It counts the requests it receives.
type fakeCDN struct {
	*httptest.Server
	requests atomic.Int64
}

var cdnAssets = map[string]string{
	"/jquery/3.3.1/asset.js":      "/*! jQuery v3.3.1 */",
	"/jquery/3.7.1/asset.js":      "/*! jQuery v3.7.1 */",
	"/jquery/3.7.1.slim/asset.js": "/*! jQuery v3.7.1 slim */",
	"/popper/1.16.1/asset.js":     "/*! popper 1.16.1 */",
}

func newFakeCDN(t *testing.T) *fakeCDN {
	cdn := &fakeCDN{}
	cdn.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cdn.requests.Add(1)
		body, ok := cdnAssets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(cdn.Close)
	return cdn
}

// pattern returns a URL pattern for a library on the fake CDN.
func (c *fakeCDN) pattern(lib string) string {
	return c.URL + "/" + lib + "/{version}/asset.js"
}

func (c *fakeCDN) url(lib, version string) string {
	return strings.Replace(c.pattern(lib), "{version}", version, 1)
}

// setupTestStore creates a SQLite database in a temporary directory and a
// Store using the real HTTP fetcher.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}
