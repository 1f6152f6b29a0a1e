package templating

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/flosch/pongo2/v6"
	"github.com/open2b/scriggo"
)

// TemplateManager loads the pages of a template directory and renders them
// with the bootstrap functions bound to the settings of each execution.
// All methods are concurrent-safe.
type TemplateManager struct {
	logger        *slog.Logger
	config        *TemplateConfig
	resolver      atomic.Pointer[bootstrap.Resolver]
	templates     *template.Template
	djangoSet     *pongo2.TemplateSet
	django        map[string]*pongo2.Template
	scriggo       map[string]*scriggo.Template
	templateNames []string
	templateDir   string
	mu            sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// Templates are read from the "templates" subdirectory of dataDir. It
// registers the pongo2 tags and performs an initial Refresh.
func NewTemplateManager(logger *slog.Logger, resolver *bootstrap.Resolver, config *TemplateConfig, dataDir string) (*TemplateManager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	tm := &TemplateManager{
		logger:      logger,
		config:      config,
		templateDir: filepath.Join(dataDir, "templates"),
	}
	tm.resolver.Store(resolver)

	if err := RegisterDjango(resolver); err != nil {
		return nil, fmt.Errorf("failed to register django tags: %w", err)
	}
	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized")
	return tm, nil
}

// SetConfig applies a new configuration. It takes effect on the next Refresh.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = config
}

// SetResolver replaces the settings resolver. Executions that already started
// keep the resolver they began with. It also replaces the process-wide pongo2
// resolver used by templates rendered outside of a manager.
func (tm *TemplateManager) SetResolver(r *bootstrap.Resolver) {
	tm.resolver.Store(r)
	djangoResolver.Store(r)
}

// Resolver returns the current settings resolver.
func (tm *TemplateManager) Resolver() *bootstrap.Resolver {
	return tm.resolver.Load()
}

// Refresh reloads all templates from the filesystem. This allows updates to
// templates without restarting the application.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Parse-time functions only fix names and signatures; every execution
	// binds its own.
	funcMap := newBootstrapFuncs(context.Background(), tm.resolver.Load()).funcMap()

	filePattern := filepath.Join(tm.templateDir, "*"+TemplateSuffix)
	tm.logger.Info("Loading template files...")

	parsedFiles, err := template.New("").Funcs(funcMap).ParseGlob(filePattern)
	var names []string
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse template files", "error", err)
			return err
		}
		// No template files, so we have to create the object without any
		parsedFiles = template.New("").Funcs(funcMap)
	} else {
		for _, t := range parsedFiles.Templates() {
			// The root template has no name and is never executed.
			if strings.HasSuffix(t.Name(), TemplateSuffix) {
				names = append(names, t.Name())
			}
		}
	}

	filePattern = filepath.Join(tm.templateDir, "*"+PartialSuffix)
	tm.logger.Info("Loading partial files...")

	newParsedFiles, err := parsedFiles.ParseGlob(filePattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse partial files", "error", err)
			return err
		}
		newParsedFiles = parsedFiles
	}

	django, djangoSet, err := tm.loadDjango()
	if err != nil {
		return err
	}
	for name := range django {
		names = append(names, name)
	}

	scriggoPages, err := tm.loadScriggo()
	if err != nil {
		return err
	}
	for name := range scriggoPages {
		names = append(names, name)
	}

	if len(names) == 0 {
		tm.logger.Warn("No template files found", "dir", tm.templateDir)
	}
	sort.Strings(names)

	tm.templates = newParsedFiles
	tm.djangoSet = djangoSet
	tm.django = django
	tm.scriggo = scriggoPages
	tm.templateNames = names
	tm.logger.Info("Loaded template files", "count", len(names))
	return nil
}

func (tm *TemplateManager) loadDjango() (map[string]*pongo2.Template, *pongo2.TemplateSet, error) {
	pages := make(map[string]*pongo2.Template)
	if !tm.config.EnableDjango {
		return pages, nil, nil
	}

	loader, err := pongo2.NewLocalFileSystemLoader(tm.templateDir)
	if err != nil {
		tm.logger.Error("failed to open django template dir", "error", err)
		return nil, nil, err
	}
	set := pongo2.NewSet("templates", loader)

	matches, err := filepath.Glob(filepath.Join(tm.templateDir, "*"+DjangoSuffix))
	if err != nil {
		return nil, nil, err
	}
	for _, match := range matches {
		name := filepath.Base(match)
		tpl, err := set.FromFile(name)
		if err != nil {
			tm.logger.Error("failed to parse django template", "template", name, "error", err)
			return nil, nil, err
		}
		pages[name] = tpl
	}
	return pages, set, nil
}

func (tm *TemplateManager) loadScriggo() (map[string]*scriggo.Template, error) {
	pages := make(map[string]*scriggo.Template)
	if !tm.config.EnableScriggo {
		return pages, nil
	}

	matches, err := filepath.Glob(filepath.Join(tm.templateDir, "*"+ScriggoSuffix))
	if err != nil {
		return nil, err
	}
	fsys := os.DirFS(tm.templateDir)
	opts := &scriggo.BuildOptions{Globals: scriggoGlobals(tm.resolver.Load)}
	for _, match := range matches {
		name := filepath.Base(match)
		tpl, err := scriggo.BuildTemplate(fsys, name, opts)
		if err != nil {
			tm.logger.Error("failed to build scriggo template", "template", name, "error", err)
			return nil, err
		}
		pages[name] = tpl
	}
	return pages, nil
}

// Execute renders a page by name, writing the output to w. The engine is
// chosen from the name's suffix. Settings are resolved at most once, with ctx.
func (tm *TemplateManager) Execute(ctx context.Context, w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	f := newBootstrapFuncs(ctx, tm.resolver.Load())
	switch {
	case strings.HasSuffix(name, DjangoSuffix):
		tpl, ok := tm.django[name]
		if !ok {
			return fmt.Errorf("django template %q is undefined", name)
		}
		return tpl.ExecuteWriter(djangoContext(f, data), w)
	case strings.HasSuffix(name, ScriggoSuffix):
		tpl, ok := tm.scriggo[name]
		if !ok {
			return fmt.Errorf("scriggo template %q is undefined", name)
		}
		return tpl.Run(w, nil, &scriggo.RunOptions{Context: withFuncs(ctx, f)})
	}

	set, err := tm.bind(f)
	if err != nil {
		return err
	}
	return set.ExecuteTemplate(w, name, data)
}

// bind clones the parsed set and installs the execution's functions. The
// parsed set itself is never executed, so it can be cloned again.
func (tm *TemplateManager) bind(f bootstrapFuncs) (*template.Template, error) {
	set, err := tm.templates.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone templates: %w", err)
	}
	return set.Funcs(f.funcMap()), nil
}

// djangoContext builds the pongo2 context for one execution. Map data is
// exposed as top-level variables, anything else as "data".
func djangoContext(f bootstrapFuncs, data any) pongo2.Context {
	ctx := pongo2.Context{}
	switch d := data.(type) {
	case nil:
	case pongo2.Context:
		ctx.Update(d)
	case map[string]any:
		ctx.Update(pongo2.Context(d))
	default:
		ctx["data"] = d
	}
	ctx[DjangoSettingsKey] = f
	ctx[DjangoSettingFunc] = f.settingString
	return ctx
}

// HasTemplate reports whether name is a loaded page.
func (tm *TemplateManager) HasTemplate(name string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	i := sort.SearchStrings(tm.templateNames, name)
	return i < len(tm.templateNames) && tm.templateNames[i] == name
}

// GetConfig returns a copy of the current configuration.
// This mainly exists for concurrency-safety reasons.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateNames returns the loaded page names, followed by the
// html/template partials.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	names := append([]string(nil), tm.templateNames...)
	for _, t := range tm.templates.Templates() {
		if strings.HasSuffix(t.Name(), PartialSuffix) {
			names = append(names, t.Name())
		}
	}
	return names
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templateDir
}

// ExecuteTemplateString parses and executes a raw html/template string with
// the loaded partials available. This is ideal for testing or previewing
// templates without saving them to disk.
func (tm *TemplateManager) ExecuteTemplateString(ctx context.Context, w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	set, err := tm.bind(newBootstrapFuncs(ctx, tm.resolver.Load()))
	if err != nil {
		return err
	}
	t, err := set.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}

// ExecuteDjangoString parses and executes a raw pongo2 template string.
func (tm *TemplateManager) ExecuteDjangoString(ctx context.Context, w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	var tpl *pongo2.Template
	var err error
	if tm.djangoSet != nil {
		tpl, err = tm.djangoSet.FromString(content)
	} else {
		tpl, err = pongo2.FromString(content)
	}
	if err != nil {
		return fmt.Errorf("failed to parse django template: %w", err)
	}
	return tpl.ExecuteWriter(djangoContext(newBootstrapFuncs(ctx, tm.resolver.Load()), data), w)
}

// ExecuteScriggoString builds and runs a raw Scriggo template string.
func (tm *TemplateManager) ExecuteScriggoString(ctx context.Context, w io.Writer, content string) error {
	const name = "string" + ScriggoSuffix
	fsys := scriggo.Files{name: []byte(content)}
	tpl, err := scriggo.BuildTemplate(fsys, name, &scriggo.BuildOptions{Globals: scriggoGlobals(tm.resolver.Load)})
	if err != nil {
		return fmt.Errorf("failed to build scriggo template: %w", err)
	}
	f := newBootstrapFuncs(ctx, tm.resolver.Load())
	return tpl.Run(w, nil, &scriggo.RunOptions{Context: withFuncs(ctx, f)})
}
