package library

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/hashicorp/go-version"
)

// MaxVersionLength is the longest version string an entry may carry.
const MaxVersionLength = 8

var (
	// ErrNotFound is returned when no entry matches the lookup.
	ErrNotFound = errors.New("library entry not found")
	// ErrInvalidEntry wraps every field validation failure.
	ErrInvalidEntry = errors.New("invalid library entry")
)

// Entry is one administrator-pinned library URL. URL and Integrity are
// derived on every save and ignored on input.
type Entry struct {
	ID         int64             `json:"id"`
	Library    bootstrap.Library `json:"library"`
	Version    string            `json:"version"`
	URLPattern string            `json:"url_pattern"`
	URL        string            `json:"url"`
	Integrity  string            `json:"integrity"`
	Active     bool              `json:"active"`
}

// ActiveEntry converts the entry for the settings resolver.
func (e Entry) ActiveEntry() bootstrap.ActiveEntry {
	return bootstrap.ActiveEntry{Library: e.Library, URL: e.URL, Integrity: e.Integrity}
}

// Resolve validates the entry's fields and returns the URL its pattern
// produces. Pattern errors are returned as *bootstrap.TemplateError, every
// other failure wraps ErrInvalidEntry.
func (e Entry) Resolve() (string, error) {
	if !e.Library.Valid() {
		return "", fmt.Errorf("%w: unknown library %q", ErrInvalidEntry, e.Library)
	}
	if err := validateVersion(e.Version); err != nil {
		return "", err
	}
	resolved, err := bootstrap.FormatVersion(e.URLPattern, e.Version)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: url %q: %v", ErrInvalidEntry, resolved, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: url %q is not an absolute http(s) url", ErrInvalidEntry, resolved)
	}
	return resolved, nil
}

func validateVersion(v string) error {
	switch {
	case v == "":
		return fmt.Errorf("%w: version is required", ErrInvalidEntry)
	case len(v) > MaxVersionLength:
		return fmt.Errorf("%w: version %q is longer than %d characters", ErrInvalidEntry, v, MaxVersionLength)
	}
	if _, err := version.NewVersion(v); err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrInvalidEntry, v, err)
	}
	return nil
}

// compareVersions orders two validated version strings. Unparseable versions
// sort before parseable ones.
func compareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}
