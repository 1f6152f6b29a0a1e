package bootstrap

import (
	"context"
	"io"
	"log/slog"
)

// ActiveEntry is the URL an administrator pinned for a library.
type ActiveEntry struct {
	Library   Library
	URL       string
	Integrity string
}

// EntrySource provides the currently active persisted library entries.
type EntrySource interface {
	ActiveEntries(ctx context.Context) ([]ActiveEntry, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEntrySource wires the persisted entries layer. It is only consulted
// when the configuration enables use_db.
func WithEntrySource(source EntrySource) Option {
	return func(r *Resolver) {
		r.source = source
	}
}

// WithI18n sets the function reporting whether the host has
// internationalization enabled. It is called on every resolution.
func WithI18n(enabled func() bool) Option {
	return func(r *Resolver) {
		if enabled != nil {
			r.i18n = enabled
		}
	}
}

// WithLogger sets the logger used to report configuration problems that are
// skipped during resolution.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver merges the configuration layers into Settings. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	config Config
	source EntrySource
	i18n   func() bool
	logger *slog.Logger
}

// NewResolver creates a Resolver for the given configuration block. The block
// is copied, later changes to it are not observed.
func NewResolver(config Config, opts ...Option) *Resolver {
	r := &Resolver{
		config: config.clone(),
		i18n:   func() bool { return false },
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns a copy of the configuration block the resolver was built with.
func (r *Resolver) Config() Config {
	return r.config.clone()
}

// Resolve builds the effective settings. Layers are applied from lowest to
// highest precedence: defaults, URLs generated from versions, the
// configuration block, and the persisted entries when use_db is enabled.
// use_i18n always reflects the host setting.
func (r *Resolver) Resolve(ctx context.Context) Settings {
	s := defaultSettings()
	r.applyVersions(&s)
	r.applyGenerated(&s)
	r.applyConfig(&s)
	if s.UseDB {
		r.applyEntries(ctx, &s)
	}
	s.UseI18n = r.i18n()
	return s
}

// Setting resolves the settings and returns a single value by name, or nil
// if the name is unknown.
func (r *Resolver) Setting(ctx context.Context, name string) any {
	value, _ := r.Resolve(ctx).Get(name)
	return value
}

func defaultSettings() Settings {
	s := Settings{
		BootstrapVersion:   DefaultBootstrapVersion,
		JQueryVersion:      DefaultJQueryVersion,
		PopperVersion:      DefaultPopperVersion,
		FontawesomeVersion: DefaultFontawesomeVersion,
		IncludeJQuery:      JQueryNone,
		URLs:               make(map[Slot]URLRecord, len(Slots)),
	}
	for slot, d := range defaultTable {
		s.URLs[slot] = d.Record
	}
	return s
}

func (r *Resolver) applyVersions(s *Settings) {
	if v := r.config.BootstrapVersion; v != "" {
		s.BootstrapVersion = v
	}
	if v := r.config.JQueryVersion; v != "" {
		s.JQueryVersion = v
	}
	if v := r.config.PopperVersion; v != "" {
		s.PopperVersion = v
	}
	if v := r.config.FontawesomeVersion; v != "" {
		s.FontawesomeVersion = v
	}
}

// applyGenerated regenerates every CDN URL from the effective versions. The
// default integrity only survives when the generated URL is the default URL.
func (r *Resolver) applyGenerated(s *Settings) {
	suffix := minSuffix
	if r.config.Minified != nil && !*r.config.Minified {
		suffix = ""
	}

	for slot, d := range defaultTable {
		pattern := d.Pattern
		if custom, ok := r.config.URLPatterns[string(slot)]; ok {
			pattern = custom
		}
		url, err := Format(pattern, map[string]string{
			PlaceholderVersion: s.version(d.Version),
			PlaceholderMin:     suffix,
		})
		if err != nil {
			r.logger.Warn("Skipping CDN url pattern", "slot", slot, "error", err)
			continue
		}
		rec := URLRecord{URL: url, CrossOrigin: CrossOriginAnonymous}
		if url == d.Record.URL {
			rec.Integrity = d.Record.Integrity
		}
		s.URLs[slot] = rec
	}
}

func (r *Resolver) applyConfig(s *Settings) {
	if r.config.IncludeJQuery != nil {
		s.IncludeJQuery = *r.config.IncludeJQuery
	}
	if r.config.JavascriptInHead != nil {
		s.JavascriptInHead = *r.config.JavascriptInHead
	}
	s.UseDB = r.config.UseDB
	for slot, rec := range r.config.recordOverrides() {
		s.URLs[slot] = rec
	}
}

func (r *Resolver) applyEntries(ctx context.Context, s *Settings) {
	if r.source == nil {
		r.logger.Debug("use_db is enabled but no entry source is configured")
		return
	}
	entries, err := r.source.ActiveEntries(ctx)
	if err != nil {
		r.logger.Warn("Failed to load active library entries, using configured urls", "error", err)
		return
	}
	for _, entry := range entries {
		slot := entry.Library.Slot()
		if slot == "" || entry.URL == "" {
			continue
		}
		rec := URLRecord{URL: entry.URL, Integrity: entry.Integrity, CrossOrigin: CrossOriginAnonymous}
		s.URLs[slot] = rec
		if variant, ok := entry.Library.VariantSlot(entry.URL); ok {
			s.URLs[variant] = rec
		}
	}
}

func (s Settings) version(key versionKey) string {
	switch key {
	case versionJQuery:
		return s.JQueryVersion
	case versionPopper:
		return s.PopperVersion
	case versionFontawesome:
		return s.FontawesomeVersion
	}
	return s.BootstrapVersion
}

// clone returns a deep copy of the configuration block.
func (c Config) clone() Config {
	if c.URLPatterns != nil {
		patterns := make(map[string]string, len(c.URLPatterns))
		for k, v := range c.URLPatterns {
			patterns[k] = v
		}
		c.URLPatterns = patterns
	}
	for _, p := range c.recordFields() {
		if *p != nil {
			rec := **p
			*p = &rec
		}
	}
	if c.Minified != nil {
		v := *c.Minified
		c.Minified = &v
	}
	if c.IncludeJQuery != nil {
		v := *c.IncludeJQuery
		c.IncludeJQuery = &v
	}
	if c.JavascriptInHead != nil {
		v := *c.JavascriptInHead
		c.JavascriptInHead = &v
	}
	return c
}
