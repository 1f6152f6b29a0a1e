package bootstrap

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeSource struct {
	entries []ActiveEntry
	err     error
	calls   int
	mu      sync.Mutex
}

func (f *fakeSource) ActiveEntries(context.Context) ([]ActiveEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.entries, f.err
}

func boolPtr(b bool) *bool { return &b }

func TestResolve_Defaults(t *testing.T) {
	s := NewResolver(DefaultConfig()).Resolve(context.Background())

	for slot, d := range defaultTable {
		if diff := cmp.Diff(d.Record, s.URL(slot)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", slot, diff)
		}
	}
	if !s.URL(SlotTheme).IsZero() {
		t.Errorf("theme_url should be empty by default, got %+v", s.URL(SlotTheme))
	}
	if s.IncludeJQuery != JQueryNone || s.JavascriptInHead || s.UseDB || s.UseI18n {
		t.Errorf("unexpected default flags: %+v", s)
	}
}

func TestResolve_VersionRegeneratesURLs(t *testing.T) {
	s := NewResolver(Config{BootstrapVersion: "4.6.2"}).Resolve(context.Background())

	for _, slot := range []Slot{SlotCSS, SlotJavascript, SlotJavascriptBundle} {
		rec := s.URL(slot)
		if !strings.Contains(rec.URL, "/bootstrap/4.6.2/") {
			t.Errorf("%s was not regenerated: %q", slot, rec.URL)
		}
		if rec.Integrity != "" {
			t.Errorf("%s kept a stale integrity hash %q", slot, rec.Integrity)
		}
		if rec.CrossOrigin != CrossOriginAnonymous {
			t.Errorf("%s crossorigin = %q", slot, rec.CrossOrigin)
		}
	}
	// Other libraries keep their defaults.
	if diff := cmp.Diff(defaultTable[SlotJQuery].Record, s.URL(SlotJQuery)); diff != "" {
		t.Errorf("jquery_url changed (-want +got):\n%s", diff)
	}
	if s.BootstrapVersion != "4.6.2" {
		t.Errorf("bootstrap_version = %q", s.BootstrapVersion)
	}
}

func TestResolve_MinifiedAndPatterns(t *testing.T) {
	cfg := Config{
		Minified:      boolPtr(false),
		JQueryVersion: "3.7.1",
		URLPatterns: map[string]string{
			string(SlotPopper): "https://unpkg.com/popper.js@{version}/dist/umd/popper{min}.js",
			string(SlotCSS):    "https://cdn/{version}/{broken",
		},
	}
	s := NewResolver(cfg).Resolve(context.Background())

	if got := s.URL(SlotJQuery).URL; got != "https://code.jquery.com/jquery-3.7.1.js" {
		t.Errorf("jquery_url = %q", got)
	}
	if got := s.URL(SlotPopper).URL; got != "https://unpkg.com/popper.js@1.14.3/dist/umd/popper.js" {
		t.Errorf("popper_url = %q", got)
	}
	// A broken pattern keeps the default record.
	if diff := cmp.Diff(defaultTable[SlotCSS].Record, s.URL(SlotCSS)); diff != "" {
		t.Errorf("css_url should fall back to default (-want +got):\n%s", diff)
	}
}

func TestResolve_OverridePrecedence(t *testing.T) {
	mode := JQuerySlim
	cfg := Config{
		BootstrapVersion: "4.6.2",
		CSSURL:           &URLRecord{URL: "https://example.com/custom.css"},
		ThemeURL:         &URLRecord{URL: "https://example.com/theme.css", Integrity: "sha384-x"},
		IncludeJQuery:    &mode,
		JavascriptInHead: boolPtr(true),
	}
	s := NewResolver(cfg).Resolve(context.Background())

	// The override replaces the whole record, even though the version
	// regenerated the css url first.
	if diff := cmp.Diff(URLRecord{URL: "https://example.com/custom.css"}, s.URL(SlotCSS)); diff != "" {
		t.Errorf("css_url mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(*cfg.ThemeURL, s.URL(SlotTheme)); diff != "" {
		t.Errorf("theme_url mismatch (-want +got):\n%s", diff)
	}
	if s.IncludeJQuery != JQuerySlim {
		t.Errorf("include_jquery = %v", s.IncludeJQuery)
	}
	if !s.JavascriptInHead {
		t.Error("javascript_in_head override ignored")
	}
}

func TestResolve_UseI18nIsNotOverridable(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`{"use_i18n": true, "jquery_version": "3.4.0"}`), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}

	host := false
	r := NewResolver(cfg, WithI18n(func() bool { return host }))
	if got := r.Setting(context.Background(), SettingUseI18n); got != false {
		t.Errorf("use_i18n = %v, expected host value false", got)
	}

	host = true
	if got := r.Setting(context.Background(), SettingUseI18n); got != true {
		t.Errorf("use_i18n = %v, expected host value true", got)
	}
}

func TestResolve_PersistedEntries(t *testing.T) {
	source := &fakeSource{entries: []ActiveEntry{
		{Library: LibraryJQuery, URL: "https://code.jquery.com/jquery-3.7.1.slim.min.js", Integrity: "sha384-slim"},
		{Library: LibraryBootstrapJS, URL: "https://cdn/bootstrap.bundle.min.js", Integrity: "sha384-bundle"},
		{Library: LibraryPopper, URL: "https://cdn/popper.js", Integrity: "sha384-popper"},
	}}
	cfg := Config{UseDB: true, PopperURL: &URLRecord{URL: "https://configured/popper.js"}}
	s := NewResolver(cfg, WithEntrySource(source)).Resolve(context.Background())

	slim := URLRecord{URL: "https://code.jquery.com/jquery-3.7.1.slim.min.js", Integrity: "sha384-slim", CrossOrigin: CrossOriginAnonymous}
	if diff := cmp.Diff(slim, s.URL(SlotJQuery)); diff != "" {
		t.Errorf("jquery_url mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(slim, s.URL(SlotJQuerySlim)); diff != "" {
		t.Errorf("jquery_slim_url mismatch (-want +got):\n%s", diff)
	}
	if got := s.URL(SlotJavascriptBundle).URL; got != "https://cdn/bootstrap.bundle.min.js" {
		t.Errorf("javascript_bundle_url = %q", got)
	}
	if got := s.URL(SlotPopper).URL; got != "https://cdn/popper.js" {
		t.Errorf("persisted popper should win over configuration, got %q", got)
	}
	if diff := cmp.Diff(defaultTable[SlotCSS].Record, s.URL(SlotCSS)); diff != "" {
		t.Errorf("css_url should be untouched (-want +got):\n%s", diff)
	}
}

func TestResolve_PersistedEntriesDisabled(t *testing.T) {
	source := &fakeSource{entries: []ActiveEntry{{Library: LibraryPopper, URL: "https://cdn/popper.js"}}}
	s := NewResolver(Config{}, WithEntrySource(source)).Resolve(context.Background())
	if source.calls != 0 {
		t.Errorf("entry source consulted %d times with use_db disabled", source.calls)
	}
	if s.URL(SlotPopper).URL == "https://cdn/popper.js" {
		t.Error("persisted entry applied with use_db disabled")
	}
}

func TestResolve_PersistedEntriesErrorFallsBack(t *testing.T) {
	source := &fakeSource{err: errors.New("database is locked")}
	s := NewResolver(Config{UseDB: true}, WithEntrySource(source)).Resolve(context.Background())
	if diff := cmp.Diff(defaultTable[SlotPopper].Record, s.URL(SlotPopper)); diff != "" {
		t.Errorf("popper_url should fall back to default (-want +got):\n%s", diff)
	}
}

func TestResolver_ConfigIsCopied(t *testing.T) {
	cfg := Config{CSSURL: &URLRecord{URL: "https://a/a.css"}, URLPatterns: map[string]string{}}
	r := NewResolver(cfg)
	cfg.CSSURL.URL = "https://b/b.css"
	cfg.URLPatterns[string(SlotJQuery)] = "{broken"

	s := r.Resolve(context.Background())
	if got := s.URL(SlotCSS).URL; got != "https://a/a.css" {
		t.Errorf("resolver observed a change to the caller's config: %q", got)
	}
	if diff := cmp.Diff(defaultTable[SlotJQuery].Record, s.URL(SlotJQuery)); diff != "" {
		t.Errorf("resolver observed a change to the caller's patterns:\n%s", diff)
	}
}

func TestResolve_Concurrent(t *testing.T) {
	r := NewResolver(Config{BootstrapVersion: "4.6.2"})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := r.Resolve(context.Background())
			s.URLs[SlotCSS] = URLRecord{URL: "mutated"}
		}()
	}
	wg.Wait()
	if got := r.Resolve(context.Background()).URL(SlotCSS).URL; got == "mutated" {
		t.Error("settings returned by Resolve share state")
	}
}

func TestSettings_Get(t *testing.T) {
	s := NewResolver(Config{}).Resolve(context.Background())

	if v, ok := s.Get("jquery_url"); !ok || v.(URLRecord).URL != defaultTable[SlotJQuery].Record.URL {
		t.Errorf("Get(jquery_url) = %v, %v", v, ok)
	}
	if v, ok := s.Get(SettingBootstrapVersion); !ok || v != DefaultBootstrapVersion {
		t.Errorf("Get(bootstrap_version) = %v, %v", v, ok)
	}
	if v, ok := s.Get(SettingIncludeJQuery); !ok || v != JQueryNone {
		t.Errorf("Get(include_jquery) = %v, %v", v, ok)
	}
	if _, ok := s.Get("does_not_exist"); ok {
		t.Error("Get should report unknown settings")
	}
}
