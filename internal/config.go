package internal

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline defaults.
const (
	// rootActionName is the action used when the URL carries none.
	rootActionName = "index"

	// maxRouteDepth bounds recursive route chasing; a chain deeper than
	// this (or a cycle) stops at the last name reached.
	maxRouteDepth = 4

	defaultViewName = "json"
)

// ErrConfigNotFound is returned when the configuration file is missing.
var ErrConfigNotFound = errors.New("temma: configuration file not found")

// Config is the application configuration consumed by the framework.
type Config struct {
	// Routes aliases requested controller names to target names.
	// Resolution chases routes recursively, bounded by maxRouteDepth.
	Routes map[string]string `yaml:"routes"`

	// DataSources maps source names to connection DSNs
	// (redis://, memcache://, postgres://, file://).
	DataSources map[string]string `yaml:"dataSources"`

	// App holds controller name resolution settings.
	App AppConfig `yaml:"application"`

	// Plugins is the pre/post plugin table.
	Plugins PluginsConfig `yaml:"plugins"`

	// Loader holds container seed configuration.
	Loader LoaderConfig `yaml:"loader"`
}

// AppConfig controls controller/action name resolution and view defaults.
type AppConfig struct {
	// DefaultController handles requests whose controller cannot be
	// resolved.
	DefaultController string `yaml:"defaultController"`

	// RootController handles requests with no controller segment ("/").
	RootController string `yaml:"rootController"`

	// ProxyController, when set, handles every request regardless of the
	// URL.
	ProxyController string `yaml:"proxyController"`

	// ControllerSuffix is appended to resolved controller names when not
	// already present (e.g. "Controller").
	ControllerSuffix string `yaml:"controllersSuffix"`

	// DefaultView renders responses that never selected a view.
	DefaultView string `yaml:"defaultView"`

	// TemplatePrefix is prepended to computed template paths.
	TemplatePrefix string `yaml:"templatesPrefix"`

	// LogLevel is the minimum slog level ("debug", "info", "warn",
	// "error").
	LogLevel string `yaml:"logLevel"`
}

// LoaderConfig seeds the per-request container from configuration.
type LoaderConfig struct {
	// Aliases are dynamic key redirections registered on every loader.
	Aliases map[string]string `yaml:"aliases"`
}

// NewConfig returns a config with defaults applied.
func NewConfig() *Config {
	return &Config{
		App: AppConfig{DefaultView: defaultViewName},
	}
}

// LoadConfig reads a YAML configuration file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("temma: parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.DefaultView == "" {
		c.App.DefaultView = defaultViewName
	}
}
