package templating

import (
	"context"
	"html"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/flosch/pongo2/v6"
)

// DjangoSettingsKey is the pongo2 context key the manager stores the
// execution's settings under. Tags fall back to the registered resolver when
// it is missing.
const DjangoSettingsKey = "bootstrap_settings"

// DjangoSettingFunc is the context function the manager provides for reading
// a setting from the execution's settings: {{ bootstrap_setting("css_url") }}.
const DjangoSettingFunc = "bootstrap_setting"

// djangoResolver serves templates rendered without settings in their context.
// pongo2 tags and filters are registered process-wide, so it is shared by
// every TemplateManager and the last RegisterDjango or SetResolver wins.
var (
	djangoResolver atomic.Pointer[bootstrap.Resolver]
	djangoOnce     sync.Once
	djangoErr      error
)

// djangoTag describes one pongo2 tag: the keyword arguments it accepts and
// how it renders.
type djangoTag struct {
	args   []string
	escape bool
	render func(f bootstrapFuncs, args []any) string
}

var djangoTags = map[string]djangoTag{
	"bootstrap_css":                   {render: renderDjangoCSS},
	"fontawesome_css":                 {render: renderDjangoFontawesome},
	"bootstrap_jquery":                {args: []string{"jquery"}, render: renderDjangoJQuery},
	"bootstrap_javascript":            {args: []string{"jquery", "popover", "bundle"}, render: renderDjangoJavascript},
	"bootstrap_css_url":               urlTag(bootstrapFuncs.cssURL),
	"bootstrap_javascript_url":        urlTag(bootstrapFuncs.javascriptURL),
	"bootstrap_javascript_bundle_url": urlTag(bootstrapFuncs.javascriptBundleURL),
	"bootstrap_jquery_url":            urlTag(bootstrapFuncs.jqueryURL),
	"bootstrap_jquery_slim_url":       urlTag(bootstrapFuncs.jquerySlimURL),
	"bootstrap_popper_url":            urlTag(bootstrapFuncs.popperURL),
	"fontawesome_url":                 urlTag(bootstrapFuncs.fontawesomeURL),
}

func renderDjangoCSS(f bootstrapFuncs, _ []any) string {
	return string(f.css())
}

func renderDjangoFontawesome(f bootstrapFuncs, _ []any) string {
	return string(f.fontawesomeCSS())
}

func renderDjangoJQuery(f bootstrapFuncs, args []any) string {
	return string(f.jquery(args...))
}

func renderDjangoJavascript(f bootstrapFuncs, args []any) string {
	return string(f.javascript(args...))
}

func urlTag(get func(bootstrapFuncs) bootstrap.URLRecord) djangoTag {
	return djangoTag{escape: true, render: func(f bootstrapFuncs, _ []any) string {
		return get(f).URL
	}}
}

// RegisterDjango registers the bootstrap tags and the bootstrap_setting
// filter with pongo2 and makes r the process-wide resolver used outside of a
// TemplateManager execution. Registration happens once, later calls only
// replace the resolver.
func RegisterDjango(r *bootstrap.Resolver) error {
	if r != nil {
		djangoResolver.Store(r)
	}
	djangoOnce.Do(func() {
		for name, tag := range djangoTags {
			if djangoErr = registerDjangoTag(name, djangoTagParser(tag)); djangoErr != nil {
				return
			}
		}
		if pongo2.FilterExists("bootstrap_setting") {
			djangoErr = pongo2.ReplaceFilter("bootstrap_setting", filterBootstrapSetting)
		} else {
			djangoErr = pongo2.RegisterFilter("bootstrap_setting", filterBootstrapSetting)
		}
	})
	return djangoErr
}

func registerDjangoTag(name string, parser pongo2.TagParser) error {
	if err := pongo2.RegisterTag(name, parser); err != nil {
		return pongo2.ReplaceTag(name, parser)
	}
	return nil
}

// djangoFuncs returns the functions for one pongo2 execution.
func djangoFuncs(public pongo2.Context) bootstrapFuncs {
	switch v := public[DjangoSettingsKey].(type) {
	case bootstrapFuncs:
		return v
	case bootstrap.Settings:
		return bootstrapFuncs{settings: func() bootstrap.Settings { return v }}
	}
	r := djangoResolver.Load()
	if r == nil {
		r = bootstrap.NewResolver(bootstrap.DefaultConfig())
	}
	return newBootstrapFuncs(context.Background(), r)
}

type djangoTagNode struct {
	tag   djangoTag
	names []string
	exprs []pongo2.IEvaluator
}

func (node *djangoTagNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	args := make([]any, 0, 2*len(node.names))
	for i, name := range node.names {
		value, err := node.exprs[i].Evaluate(ctx)
		if err != nil {
			return err
		}
		args = append(args, name, value.Interface())
	}

	out := node.tag.render(djangoFuncs(ctx.Public), args)
	if node.tag.escape && ctx.Autoescape {
		out = html.EscapeString(out)
	}
	_, _ = writer.WriteString(out)
	return nil
}

// djangoTagParser parses name=value keyword arguments.
func djangoTagParser(tag djangoTag) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		node := &djangoTagNode{tag: tag}
		for arguments.Remaining() > 0 {
			keyToken := arguments.MatchType(pongo2.TokenIdentifier)
			if keyToken == nil {
				return nil, arguments.Error("Expected an identifier.", nil)
			}
			if !slices.Contains(tag.args, keyToken.Val) {
				return nil, arguments.Error("Unknown argument '"+keyToken.Val+"'.", keyToken)
			}
			if arguments.Match(pongo2.TokenSymbol, "=") == nil {
				return nil, arguments.Error("Expected '='.", nil)
			}
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.names = append(node.names, keyToken.Val)
			node.exprs = append(node.exprs, expr)
		}
		return node, nil
	}
}

// filterBootstrapSetting implements {{ "css_url"|bootstrap_setting }}. A
// filter cannot see the execution context, so without a parameter it resolves
// through the process-wide resolver. Inside a TemplateManager execution use
// {{ "css_url"|bootstrap_setting:bootstrap_settings }} or the
// bootstrap_setting context function to read the execution's settings.
func filterBootstrapSetting(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	f := djangoFuncs(pongo2.Context{DjangoSettingsKey: param.Interface()})
	return pongo2.AsValue(f.djangoSetting(in.String())), nil
}

// djangoSetting returns a setting for pongo2. URL records become their URL
// string, since pongo2 only autoescapes string values.
func (f bootstrapFuncs) djangoSetting(name string) any {
	if rec, ok := f.setting(name).(bootstrap.URLRecord); ok {
		return rec.URL
	}
	return f.setting(name)
}
