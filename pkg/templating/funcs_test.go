package templating

import (
	"context"
	"strings"
	"testing"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/google/go-cmp/cmp"
)

func TestJavascriptOptions(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want bootstrap.JavascriptOptions
	}{
		{"none", nil, bootstrap.JavascriptOptions{}},
		{"all", []any{"jquery", "slim", "popover", true, "bundle", true},
			bootstrap.JavascriptOptions{JQuery: bootstrap.JQuerySlim, Popover: true, Bundle: true}},
		{"jquery true", []any{"jquery", true}, bootstrap.JavascriptOptions{JQuery: bootstrap.JQueryFull}},
		{"string flags", []any{"popover", "true", "bundle", "false"}, bootstrap.JavascriptOptions{Popover: true}},
		{"unknown key", []any{"color", "red", "popover", 1}, bootstrap.JavascriptOptions{Popover: true}},
		{"trailing key", []any{"popover", true, "bundle"}, bootstrap.JavascriptOptions{Popover: true}},
		{"non string key", []any{42, true}, bootstrap.JavascriptOptions{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, javascriptOptions(tc.args)); diff != "" {
				t.Errorf("javascriptOptions(%v) mismatch (-want +got):\n%s", tc.args, diff)
			}
		})
	}
}

func TestJQueryMode(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want bootstrap.JQueryMode
	}{
		{"default", nil, bootstrap.JQueryFull},
		{"single slim", []any{"slim"}, bootstrap.JQuerySlim},
		{"single false", []any{false}, bootstrap.JQueryNone},
		{"pair", []any{"jquery", "slim"}, bootstrap.JQuerySlim},
		{"pair disabled", []any{"jquery", "none"}, bootstrap.JQueryNone},
		{"pair unknown key", []any{"popover", true}, bootstrap.JQueryFull},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := jqueryMode(tc.args); got != tc.want {
				t.Errorf("jqueryMode(%v) = %v, expected %v", tc.args, got, tc.want)
			}
		})
	}
}

func TestBootstrapFuncs_Settings(t *testing.T) {
	f := newBootstrapFuncs(context.Background(), bootstrap.NewResolver(bootstrap.Config{
		ThemeURL: &bootstrap.URLRecord{URL: "https://cdn.example/theme.css"},
	}))

	testCases := map[string]string{
		bootstrap.SettingBootstrapVersion: bootstrap.DefaultBootstrapVersion,
		bootstrap.SettingIncludeJQuery:    "false",
		bootstrap.SettingUseDB:            "false",
		string(bootstrap.SlotTheme):       "https://cdn.example/theme.css",
		"no_such_setting":                 "",
	}
	for name, want := range testCases {
		if got := f.settingString(name); got != want {
			t.Errorf("settingString(%q) = %q, expected %q", name, got, want)
		}
	}

	if _, ok := f.setting(string(bootstrap.SlotCSS)).(bootstrap.URLRecord); !ok {
		t.Errorf("setting(css_url) should return a URLRecord, got %T", f.setting(string(bootstrap.SlotCSS)))
	}

	css := string(f.css())
	if strings.Count(css, "<link ") != 2 || !strings.Contains(css, "theme.css") {
		t.Errorf("css() should render the bootstrap and theme stylesheets, got %q", css)
	}
}

func TestBootstrapFuncs_Tags(t *testing.T) {
	f := newBootstrapFuncs(context.Background(), bootstrap.NewResolver(bootstrap.DefaultConfig()))
	s := defaultSettings()

	if got, want := f.jquery(), bootstrap.RenderJQuery(s, bootstrap.JQueryFull); got != want {
		t.Errorf("jquery() = %q, expected %q", got, want)
	}
	if got := f.jquery(false); got != "" {
		t.Errorf("jquery(false) = %q, expected nothing", got)
	}
	want := bootstrap.AssembleJavascript(s, bootstrap.JavascriptOptions{Popover: true})
	if got := f.javascript("popover", true); got != want {
		t.Errorf("javascript(popover) = %q, expected %q", got, want)
	}
	if got := f.fontawesomeURL(); got != s.URL(bootstrap.SlotFontawesome) {
		t.Errorf("fontawesomeURL() = %v, expected %v", got, s.URL(bootstrap.SlotFontawesome))
	}
}
