package templating

const (
	// TemplateSuffix marks html/template pages.
	TemplateSuffix = ".tmpl.html"
	// PartialSuffix marks html/template partials, which are parsed but not
	// listed as pages.
	PartialSuffix = ".part.html"
	// DjangoSuffix marks pongo2 pages.
	DjangoSuffix = ".django.html"
	// ScriggoSuffix marks Scriggo pages.
	ScriggoSuffix = ".scriggo.html"
)

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// DefaultTemplate is the page rendered for the site root.
	DefaultTemplate string `json:"default_template"`

	// EnableDjango loads *.django.html pages with pongo2.
	EnableDjango bool `json:"enable_django"`

	// EnableScriggo loads *.scriggo.html pages with Scriggo.
	EnableScriggo bool `json:"enable_scriggo"`
}

// DefaultConfig returns a TemplateConfig that serves index.tmpl.html and
// enables every engine.
func DefaultConfig() *TemplateConfig {
	return &TemplateConfig{
		DefaultTemplate: "index" + TemplateSuffix,
		EnableDjango:    true,
		EnableScriggo:   true,
	}
}
