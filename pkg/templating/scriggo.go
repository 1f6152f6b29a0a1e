package templating

import (
	"context"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/open2b/scriggo/native"
)

type funcsKey struct{}

// withFuncs stores the execution's functions in ctx, so Scriggo globals
// share one resolution per run.
func withFuncs(ctx context.Context, f bootstrapFuncs) context.Context {
	return context.WithValue(ctx, funcsKey{}, f)
}

// ScriggoGlobals returns the template globals for hosts that build Scriggo
// templates themselves. Settings are resolved with r and the context passed
// in the run options.
func ScriggoGlobals(r *bootstrap.Resolver) native.Declarations {
	return scriggoGlobals(func() *bootstrap.Resolver { return r })
}

func scriggoGlobals(resolver func() *bootstrap.Resolver) native.Declarations {
	funcs := func(env native.Env) bootstrapFuncs {
		ctx := env.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if f, ok := ctx.Value(funcsKey{}).(bootstrapFuncs); ok {
			return f
		}
		return newBootstrapFuncs(ctx, resolver())
	}

	return native.Declarations{
		"bootstrapCSSURL": func(env native.Env) string {
			return funcs(env).cssURL().URL
		},
		"bootstrapJavascriptURL": func(env native.Env) string {
			return funcs(env).javascriptURL().URL
		},
		"bootstrapJavascriptBundleURL": func(env native.Env) string {
			return funcs(env).javascriptBundleURL().URL
		},
		"bootstrapJQueryURL": func(env native.Env) string {
			return funcs(env).jqueryURL().URL
		},
		"bootstrapJQuerySlimURL": func(env native.Env) string {
			return funcs(env).jquerySlimURL().URL
		},
		"bootstrapPopperURL": func(env native.Env) string {
			return funcs(env).popperURL().URL
		},
		"fontawesomeURL": func(env native.Env) string {
			return funcs(env).fontawesomeURL().URL
		},
		"bootstrapCSS": func(env native.Env) native.HTML {
			return native.HTML(funcs(env).css())
		},
		"fontawesomeCSS": func(env native.Env) native.HTML {
			return native.HTML(funcs(env).fontawesomeCSS())
		},
		"bootstrapJQuery": func(env native.Env, args ...interface{}) native.HTML {
			return native.HTML(funcs(env).jquery(args...))
		},
		"bootstrapJavascript": func(env native.Env, args ...interface{}) native.HTML {
			return native.HTML(funcs(env).javascript(args...))
		},
		"bootstrapSetting": func(env native.Env, name string) string {
			return funcs(env).settingString(name)
		},
	}
}
