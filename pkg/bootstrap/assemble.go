package bootstrap

import (
	"html/template"
	"strings"
)

// JavascriptOptions are the parameters of the composite JavaScript tag.
type JavascriptOptions struct {
	// JQuery selects a jQuery build. JQueryNone falls back to the
	// include_jquery setting.
	JQuery JQueryMode
	// Popover includes Popper, unless Bundle is set.
	Popover bool
	// Bundle uses the Bootstrap bundle, which already contains Popper.
	Bundle bool
}

// AssembleJavascript renders the script tags for jQuery, Popper and the
// Bootstrap JavaScript, one per line.
//
// When the plain javascript_url points at a bundle build, Popper would be
// loaded twice, so a requested Popper tag is left out in that case.
func AssembleJavascript(s Settings, opts JavascriptOptions) template.HTML {
	mode := opts.JQuery
	if mode == JQueryNone {
		mode = s.IncludeJQuery
	}

	core := s.URL(SlotJavascript)
	if opts.Bundle {
		core = s.URL(SlotJavascriptBundle)
	}
	suppressPositionerDueToBundleMarker := opts.Popover && !opts.Bundle &&
		strings.Contains(core.URL, BundleMarker)

	var tags []string
	if tag := RenderJQuery(s, mode); tag != "" {
		tags = append(tags, string(tag))
	}
	if opts.Popover && !opts.Bundle && !suppressPositionerDueToBundleMarker {
		if tag := RenderScriptTag(s.URL(SlotPopper)); tag != "" {
			tags = append(tags, string(tag))
		}
	}
	if tag := RenderScriptTag(core); tag != "" {
		tags = append(tags, string(tag))
	}
	return template.HTML(strings.Join(tags, "\n"))
}

// RenderJQuery renders the jQuery script tag for the given mode.
func RenderJQuery(s Settings, mode JQueryMode) template.HTML {
	switch mode {
	case JQuerySlim:
		return RenderScriptTag(s.URL(SlotJQuerySlim))
	case JQueryFull:
		return RenderScriptTag(s.URL(SlotJQuery))
	}
	return ""
}

// AssembleCSS renders the Bootstrap stylesheet and, when configured, the
// theme stylesheet.
func AssembleCSS(s Settings) template.HTML {
	var tags []string
	for _, slot := range []Slot{SlotCSS, SlotTheme} {
		if tag := RenderLinkTag(s.URL(slot), "", ""); tag != "" {
			tags = append(tags, string(tag))
		}
	}
	return template.HTML(strings.Join(tags, "\n"))
}

// RenderFontawesome renders the Font Awesome stylesheet.
func RenderFontawesome(s Settings) template.HTML {
	return RenderLinkTag(s.URL(SlotFontawesome), "", "")
}
