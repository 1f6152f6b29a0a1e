package bootstrap

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat_ReplacesOnlyPlaceholders(t *testing.T) {
	patterns := []string{
		"https://code.jquery.com/jquery-{version}.js",
		"{version}",
		"https://cdn.example.com/v{version}/all.css?x=1&y=2#frag",
	}
	versions := []string{"3.3.1", "", "5.0.0-beta.1", "a b"}

	for _, p := range patterns {
		for _, v := range versions {
			got, err := FormatVersion(p, v)
			if err != nil {
				t.Fatalf("FormatVersion(%q, %q) returned error: %v", p, v, err)
			}
			if expected := strings.Replace(p, "{version}", v, 1); got != expected {
				t.Errorf("FormatVersion(%q, %q) = %q, expected %q", p, v, got, expected)
			}
		}
	}

	got, err := FormatVersion("https://code.jquery.com/jquery-{version}.js", "3.3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://code.jquery.com/jquery-3.3.1.js" {
		t.Errorf("unexpected url %q", got)
	}
}

func TestFormat_MinPlaceholder(t *testing.T) {
	got, err := Format("https://cdn/bootstrap/{version}/js/bootstrap{min}.js", map[string]string{
		PlaceholderVersion: "4.1.1",
		PlaceholderMin:     ".min",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cdn/bootstrap/4.1.1/js/bootstrap.min.js" {
		t.Errorf("unexpected url %q", got)
	}
}

func TestFormat_RejectsBadPatterns(t *testing.T) {
	bad := map[string]string{
		"no placeholder":       "https://code.jquery.com/jquery.js",
		"two placeholders":     "https://cdn/{version}/jquery-{version}.js",
		"stray open":           "https://cdn/{version}/{jquery.js",
		"stray close":          "https://cdn/{version}/}jquery.js",
		"nested":               "https://cdn/{{version}}.js",
		"unknown placeholder":  "https://cdn/{version}/{min}.js",
		"misspelled":           "https://cdn/{versoin}.js",
		"only braces":          "{}",
		"extra closing at end": "https://cdn/{version}.js}",
	}
	for name, pattern := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := FormatVersion(pattern, "1.0.0")
			var tmplErr *TemplateError
			if !errors.As(err, &tmplErr) {
				t.Fatalf("expected *TemplateError for %q, got %v", pattern, err)
			}
			if tmplErr.Pattern != pattern {
				t.Errorf("error pattern = %q, expected %q", tmplErr.Pattern, pattern)
			}
			if err := ValidatePattern(pattern); err == nil {
				t.Errorf("ValidatePattern(%q) should fail", pattern)
			}
		})
	}
}

func TestValidatePattern_AcceptsSinglePlaceholder(t *testing.T) {
	if err := ValidatePattern("https://code.jquery.com/jquery-{version}.slim.min.js"); err != nil {
		t.Errorf("expected valid pattern, got %v", err)
	}
}

func TestDefaultPatternsMatchDefaultRecords(t *testing.T) {
	for slot, d := range defaultTable {
		got, err := Format(d.Pattern, map[string]string{
			PlaceholderVersion: defaultSettings().version(d.Version),
			PlaceholderMin:     minSuffix,
		})
		if err != nil {
			t.Fatalf("%s: default pattern invalid: %v", slot, err)
		}
		if got != d.Record.URL {
			t.Errorf("%s: pattern produces %q, default url is %q", slot, got, d.Record.URL)
		}
	}
}
