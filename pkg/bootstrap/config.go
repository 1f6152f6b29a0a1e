package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the user supplied configuration block. Every field is optional;
// a field left at its zero value (or nil) keeps the built-in behavior.
//
// URL overrides replace the whole record: overriding css_url with only a URL
// drops the default integrity and cross-origin attributes. An empty URL, or an
// explicit null in JSON and YAML, disables the slot.
type Config struct {
	BootstrapVersion   string `json:"bootstrap_version,omitempty" yaml:"bootstrap_version,omitempty" toml:"bootstrap_version,omitempty"`
	JQueryVersion      string `json:"jquery_version,omitempty" yaml:"jquery_version,omitempty" toml:"jquery_version,omitempty"`
	PopperVersion      string `json:"popover_version,omitempty" yaml:"popover_version,omitempty" toml:"popover_version,omitempty"`
	FontawesomeVersion string `json:"fontawesome_version,omitempty" yaml:"fontawesome_version,omitempty" toml:"fontawesome_version,omitempty"`

	// Minified selects the ".min" builds when URLs are generated from
	// versions. Defaults to true.
	Minified *bool `json:"minified,omitempty" yaml:"minified,omitempty" toml:"minified,omitempty"`

	// URLPatterns replaces the CDN pattern of individual slots, keyed by slot
	// name (e.g. "jquery_url").
	URLPatterns map[string]string `json:"url_patterns,omitempty" yaml:"url_patterns,omitempty" toml:"url_patterns,omitempty"`

	IncludeJQuery    *JQueryMode `json:"include_jquery,omitempty" yaml:"include_jquery,omitempty" toml:"include_jquery,omitempty"`
	JavascriptInHead *bool       `json:"javascript_in_head,omitempty" yaml:"javascript_in_head,omitempty" toml:"javascript_in_head,omitempty"`

	// UseDB enables the persisted library entries layer.
	UseDB bool `json:"use_db,omitempty" yaml:"use_db,omitempty" toml:"use_db,omitempty"`

	CSSURL              *URLRecord `json:"css_url,omitempty" yaml:"css_url,omitempty" toml:"css_url,omitempty"`
	JavascriptURL       *URLRecord `json:"javascript_url,omitempty" yaml:"javascript_url,omitempty" toml:"javascript_url,omitempty"`
	JavascriptBundleURL *URLRecord `json:"javascript_bundle_url,omitempty" yaml:"javascript_bundle_url,omitempty" toml:"javascript_bundle_url,omitempty"`
	JQueryURL           *URLRecord `json:"jquery_url,omitempty" yaml:"jquery_url,omitempty" toml:"jquery_url,omitempty"`
	JQuerySlimURL       *URLRecord `json:"jquery_slim_url,omitempty" yaml:"jquery_slim_url,omitempty" toml:"jquery_slim_url,omitempty"`
	PopperURL           *URLRecord `json:"popper_url,omitempty" yaml:"popper_url,omitempty" toml:"popper_url,omitempty"`
	FontawesomeURL      *URLRecord `json:"fontawesome_url,omitempty" yaml:"fontawesome_url,omitempty" toml:"fontawesome_url,omitempty"`
	ThemeURL            *URLRecord `json:"theme_url,omitempty" yaml:"theme_url,omitempty" toml:"theme_url,omitempty"`
}

// DefaultConfig returns an empty configuration block, which resolves to the
// built-in defaults.
func DefaultConfig() Config {
	return Config{}
}

// recordFields maps every slot to its override field.
func (c *Config) recordFields() map[Slot]**URLRecord {
	return map[Slot]**URLRecord{
		SlotCSS:              &c.CSSURL,
		SlotJavascript:       &c.JavascriptURL,
		SlotJavascriptBundle: &c.JavascriptBundleURL,
		SlotJQuery:           &c.JQueryURL,
		SlotJQuerySlim:       &c.JQuerySlimURL,
		SlotPopper:           &c.PopperURL,
		SlotFontawesome:      &c.FontawesomeURL,
		SlotTheme:            &c.ThemeURL,
	}
}

// recordOverrides returns the URL overrides that are set, keyed by slot.
func (c Config) recordOverrides() map[Slot]URLRecord {
	overrides := make(map[Slot]URLRecord)
	for slot, rec := range c.recordFields() {
		if *rec != nil {
			overrides[slot] = **rec
		}
	}
	return overrides
}

// UnmarshalJSON decodes the block. A slot set to null is kept as an empty
// record, so it disables the slot instead of falling back to the default.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	var cfg plain
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Config(cfg)
	for slot, field := range c.recordFields() {
		if v, ok := raw[string(slot)]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			*field = &URLRecord{}
		}
	}
	return nil
}

// UnmarshalYAML decodes the block with the same null handling as
// UnmarshalJSON.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	var cfg plain
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*c = Config(cfg)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	fields := c.recordFields()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if field, ok := fields[Slot(key.Value)]; ok && value.ShortTag() == "!!null" {
			*field = &URLRecord{}
		}
	}
	return nil
}

// Config file formats understood by DecodeConfig.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// LoadConfig reads a configuration block from a file. The format is chosen
// from the file extension: .json, .yaml/.yml or .toml.
func LoadConfig(path string) (Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return Config{}, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	return DecodeConfig(file, format)
}

// DecodeConfig reads a configuration block in the given format.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s config: %w", format, err)
	}
	return cfg, nil
}
