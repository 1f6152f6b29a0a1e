package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/CTAG07/IncludeBootstrap/pkg/templating"
	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment override, so "server_addr"
// is read from INCLUDE_BOOTSTRAP_SERVER_ADDR.
const envPrefix = "INCLUDE_BOOTSTRAP"

// ServerConfig holds the configuration for the HTTP servers.
type ServerConfig struct {
	ServerAddr      string `json:"server_addr"`
	ApiAddr         string `json:"api_addr"`
	LogLevel        string `json:"log_level"`
	LogFile         string `json:"log_file"`
	DataDir         string `json:"data_dir"`
	DatabasePath    string `json:"database_path"`
	BootstrapFile   string `json:"bootstrap_file"`
	// FetchTimeoutSec bounds the integrity fetch of a library entry save.
	// 0 leaves only the request context in charge.
	FetchTimeoutSec int    `json:"fetch_timeout_sec"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server    *ServerConfig              `json:"server_config"`
	Templates *templating.TemplateConfig `json:"template_config"`
	Bootstrap *bootstrap.Config          `json:"bootstrap_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr:      ":7277",
		ApiAddr:         ":7278",
		LogLevel:        "info",
		DataDir:         "./data",
		DatabasePath:    "./data/include_bootstrap.db?_journal_mode=WAL&_busy_timeout=5000",
		FetchTimeoutSec: 0,
	}
}

func defaultConfig() *Config {
	bc := bootstrap.DefaultConfig()
	return &Config{
		Server:    DefaultServerConfig(),
		Templates: templating.DefaultConfig(),
		Bootstrap: &bc,
	}
}

// fillDefaults replaces sections that a config file explicitly nulled.
func (c *Config) fillDefaults() {
	defaults := defaultConfig()
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Templates == nil {
		c.Templates = defaults.Templates
	}
	if c.Bootstrap == nil {
		c.Bootstrap = defaults.Bootstrap
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
// Environment overrides are applied afterwards, and a bootstrap_file, when
// set, replaces the bootstrap_config block.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			// The server can still run with defaults.
			fmt.Printf("warning: failed to write default config file: %v\n", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = json.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		config.fillDefaults()
	}

	applyEnv(config)

	if config.Server.BootstrapFile != "" {
		bc, err := bootstrap.LoadConfig(config.Server.BootstrapFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load bootstrap file: %w", err)
		}
		config.Bootstrap = &bc
	}
	return config, nil
}

// applyEnv overrides file settings with INCLUDE_BOOTSTRAP_* environment
// variables.
func applyEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, target := range map[string]*string{
		"server_addr":    &config.Server.ServerAddr,
		"api_addr":       &config.Server.ApiAddr,
		"log_level":      &config.Server.LogLevel,
		"log_file":       &config.Server.LogFile,
		"data_dir":       &config.Server.DataDir,
		"database_path":  &config.Server.DatabasePath,
		"bootstrap_file": &config.Server.BootstrapFile,
	} {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}
	if v.IsSet("fetch_timeout_sec") {
		config.Server.FetchTimeoutSec = v.GetInt("fetch_timeout_sec")
	}
	if v.IsSet("use_db") {
		config.Bootstrap.UseDB = v.GetBool("use_db")
	}
}

// validateBootstrap rejects CDN patterns the resolver could never format.
func validateBootstrap(bc *bootstrap.Config) error {
	for name, pattern := range bc.URLPatterns {
		if _, ok := bootstrap.DefaultPattern(bootstrap.Slot(name)); !ok {
			return fmt.Errorf("url_patterns: unknown slot %q", name)
		}
		_, err := bootstrap.Format(pattern, map[string]string{
			bootstrap.PlaceholderVersion: "0",
			bootstrap.PlaceholderMin:     "",
		})
		if err != nil {
			return fmt.Errorf("url_patterns[%s]: %w", name, err)
		}
	}
	return nil
}

// ConfigManager handles thread-safe access to configuration and the settings
// resolver derived from it.
type ConfigManager struct {
	config     *Config
	mu         sync.RWMutex
	configPath string
	logger     *slog.Logger
	tm         *templating.TemplateManager
	source     bootstrap.EntrySource
}

// NewConfigManager loads the config and initializes the manager.
func NewConfigManager(path string) (*ConfigManager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err = validateBootstrap(cfg.Bootstrap); err != nil {
		return nil, fmt.Errorf("invalid bootstrap config: %w", err)
	}

	return &ConfigManager{
		config:     cfg,
		configPath: path,
		// Log to stdout before the application-specific logger is set.
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})),
	}, nil
}

// SetTemplateManager registers the template manager to receive config updates.
func (cm *ConfigManager) SetTemplateManager(tm *templating.TemplateManager) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.tm = tm
	if tm != nil {
		tm.SetConfig(cm.config.Templates)
		tm.SetResolver(cm.newResolver(cm.config.Bootstrap))
	}
}

// SetEntrySource sets where persisted library entries are read from when
// use_db is enabled.
func (cm *ConfigManager) SetEntrySource(source bootstrap.EntrySource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.source = source
}

// SetLogger sets the logger. That's about it.
func (cm *ConfigManager) SetLogger(logger *slog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger
}

// Get returns a thread-safe copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return *cm.config
}

// Resolver builds a settings resolver for the current bootstrap config.
func (cm *ConfigManager) Resolver() *bootstrap.Resolver {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.newResolver(cm.config.Bootstrap)
}

func (cm *ConfigManager) newResolver(bc *bootstrap.Config) *bootstrap.Resolver {
	opts := []bootstrap.Option{bootstrap.WithLogger(cm.logger)}
	if cm.source != nil {
		opts = append(opts, bootstrap.WithEntrySource(cm.source))
	}
	return bootstrap.NewResolver(*bc, opts...)
}

// Update validates and applies a new configuration, saves it to disk, and
// swaps the resolver used by templates.
func (cm *ConfigManager) Update(newConfig Config) error {
	if newConfig.Server == nil || newConfig.Templates == nil || newConfig.Bootstrap == nil {
		return fmt.Errorf("configuration is missing a section")
	}
	if err := validateBootstrap(newConfig.Bootstrap); err != nil {
		return fmt.Errorf("bootstrap configuration rejected: %w", err)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.tm != nil {
		oldTmplConfig := cm.config.Templates

		cm.tm.SetConfig(newConfig.Templates)
		if err := cm.tm.Refresh(); err != nil {
			// Rollback to old config
			cm.tm.SetConfig(oldTmplConfig)
			_ = cm.tm.Refresh()
			return fmt.Errorf("template configuration rejected: %w", err)
		}
		cm.tm.SetResolver(cm.newResolver(newConfig.Bootstrap))
	}

	*cm.config = newConfig

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(cm.configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cm.logger.Info("Configuration updated", "use_db", newConfig.Bootstrap.UseDB)
	return nil
}
