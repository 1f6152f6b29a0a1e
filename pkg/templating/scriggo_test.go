package templating

import (
	"bytes"
	"context"
	"testing"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"
)

func runScriggo(ctx context.Context, t *testing.T, globals native.Declarations, content string) string {
	t.Helper()
	fsys := scriggo.Files{"index.html": []byte(content)}
	tpl, err := scriggo.BuildTemplate(fsys, "index.html", &scriggo.BuildOptions{Globals: globals})
	if err != nil {
		t.Fatalf("failed to build %q: %v", content, err)
	}
	var buf bytes.Buffer
	if err := tpl.Run(&buf, nil, &scriggo.RunOptions{Context: ctx}); err != nil {
		t.Fatalf("failed to run %q: %v", content, err)
	}
	return buf.String()
}

func TestScriggoGlobals(t *testing.T) {
	r := bootstrap.NewResolver(bootstrap.DefaultConfig())
	s := r.Resolve(context.Background())
	globals := ScriggoGlobals(r)

	testCases := []struct {
		content string
		want    string
	}{
		{`{{ bootstrapCSS() }}`, string(bootstrap.AssembleCSS(s))},
		{`{{ fontawesomeCSS() }}`, string(bootstrap.RenderFontawesome(s))},
		{`{{ bootstrapJQuery() }}`, string(bootstrap.RenderJQuery(s, bootstrap.JQueryFull))},
		{`{{ bootstrapJQuery("slim") }}`, string(bootstrap.RenderJQuery(s, bootstrap.JQuerySlim))},
		{`{{ bootstrapJavascript("popover", true) }}`, string(bootstrap.AssembleJavascript(s, bootstrap.JavascriptOptions{Popover: true}))},
		{`{{ bootstrapPopperURL() }}`, s.URL(bootstrap.SlotPopper).URL},
		{`{{ bootstrapJavascriptURL() }}`, s.URL(bootstrap.SlotJavascript).URL},
		{`{{ bootstrapSetting("bootstrap_version") }}`, bootstrap.DefaultBootstrapVersion},
		{`{{ bootstrapSetting("include_jquery") }}`, "false"},
	}

	for _, tc := range testCases {
		t.Run(tc.content, func(t *testing.T) {
			if got := runScriggo(context.Background(), t, globals, tc.content); got != tc.want {
				t.Errorf("%s rendered %q, expected %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestScriggoGlobals_ContextFuncs(t *testing.T) {
	source := &countingSource{entries: []bootstrap.ActiveEntry{
		{Library: bootstrap.LibraryJQuery, URL: "https://cdn.example/jquery.slim.js"},
	}}
	r := bootstrap.NewResolver(bootstrap.Config{UseDB: true}, bootstrap.WithEntrySource(source))
	ctx := withFuncs(context.Background(), newBootstrapFuncs(context.Background(), r))

	got := runScriggo(ctx, t, ScriggoGlobals(r), `{{ bootstrapJQueryURL() }} {{ bootstrapJQuerySlimURL() }}`)
	if got != "https://cdn.example/jquery.slim.js https://cdn.example/jquery.slim.js" {
		t.Errorf("unexpected output %q", got)
	}
	if source.Calls() != 1 {
		t.Errorf("settings resolved %d times, expected 1", source.Calls())
	}
}
