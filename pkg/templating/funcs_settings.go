package templating

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
)

// bootstrapFuncs is the engine independent implementation of every template
// function. settings is memoized, so one execution resolves once.
type bootstrapFuncs struct {
	settings func() bootstrap.Settings
}

func newBootstrapFuncs(ctx context.Context, r *bootstrap.Resolver) bootstrapFuncs {
	return bootstrapFuncs{settings: sync.OnceValue(func() bootstrap.Settings {
		return r.Resolve(ctx)
	})}
}

// funcMap returns the html/template functions.
func (f bootstrapFuncs) funcMap() template.FuncMap {
	return template.FuncMap{
		// URLs (funcs_urls.go)
		"bootstrapCSSURL":              f.cssURL,
		"bootstrapJavascriptURL":       f.javascriptURL,
		"bootstrapJavascriptBundleURL": f.javascriptBundleURL,
		"bootstrapJQueryURL":           f.jqueryURL,
		"bootstrapJQuerySlimURL":       f.jquerySlimURL,
		"bootstrapPopperURL":           f.popperURL,
		"fontawesomeURL":               f.fontawesomeURL,

		// Tags (funcs_tags.go)
		"bootstrapCSS":        f.css,
		"fontawesomeCSS":      f.fontawesomeCSS,
		"bootstrapJQuery":     f.jquery,
		"bootstrapJavascript": f.javascript,

		// Settings
		"bootstrapSetting": f.setting,
	}
}

// setting returns a resolved setting by name, or nil if there is none.
func (f bootstrapFuncs) setting(name string) any {
	value, _ := f.settings().Get(name)
	return value
}

// settingString formats a setting for engines that cannot print arbitrary
// values. URL records print as their URL.
func (f bootstrapFuncs) settingString(name string) string {
	switch value := f.setting(name).(type) {
	case nil:
		return ""
	case string:
		return value
	case bootstrap.URLRecord:
		return value.URL
	default:
		return fmt.Sprint(value)
	}
}

// truthy interprets a template argument as a boolean the way the jQuery
// option is interpreted.
func truthy(v any) bool {
	return bootstrap.ParseJQueryMode(v).Enabled()
}

// javascriptOptions reads "jquery", "popover" and "bundle" from alternating
// key/value arguments. Unknown keys and a trailing key without value are
// ignored.
func javascriptOptions(args []any) bootstrap.JavascriptOptions {
	var opts bootstrap.JavascriptOptions
	for i := 0; i+1 < len(args); i += 2 {
		key, _ := args[i].(string)
		switch key {
		case "jquery":
			opts.JQuery = bootstrap.ParseJQueryMode(args[i+1])
		case "popover":
			opts.Popover = truthy(args[i+1])
		case "bundle":
			opts.Bundle = truthy(args[i+1])
		}
	}
	return opts
}

// jqueryMode reads the jQuery build from either a single value or a
// "jquery" key/value pair. Without arguments the full build is used.
func jqueryMode(args []any) bootstrap.JQueryMode {
	switch len(args) {
	case 0:
		return bootstrap.JQueryFull
	case 1:
		return bootstrap.ParseJQueryMode(args[0])
	}
	mode := bootstrap.JQueryFull
	for i := 0; i+1 < len(args); i += 2 {
		if key, _ := args[i].(string); key == "jquery" {
			mode = bootstrap.ParseJQueryMode(args[i+1])
		}
	}
	return mode
}
