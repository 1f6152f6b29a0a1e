package templating

import (
	"html/template"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
)

// css renders the Bootstrap stylesheet and the theme stylesheet, if any.
func (f bootstrapFuncs) css() template.HTML {
	return bootstrap.AssembleCSS(f.settings())
}

// fontawesomeCSS renders the Font Awesome stylesheet.
func (f bootstrapFuncs) fontawesomeCSS() template.HTML {
	return bootstrap.RenderFontawesome(f.settings())
}

// jquery renders a single jQuery script tag.
//
//	{{bootstrapJQuery}} {{bootstrapJQuery "slim"}} {{bootstrapJQuery false}}
func (f bootstrapFuncs) jquery(args ...any) template.HTML {
	return bootstrap.RenderJQuery(f.settings(), jqueryMode(args))
}

// javascript renders jQuery, Popper and Bootstrap as configured by key/value
// arguments.
//
//	{{bootstrapJavascript "jquery" "slim" "popover" true "bundle" true}}
func (f bootstrapFuncs) javascript(args ...any) template.HTML {
	return bootstrap.AssembleJavascript(f.settings(), javascriptOptions(args))
}
