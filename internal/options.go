package internal

import (
	"log/slog"

	"github.com/temma-framework/temma/pkg/session"
)

// Option configures the framework.
type Option func(*Framework)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(f *Framework) {
		if cfg != nil {
			cfg.applyDefaults()
			f.cfg = cfg
		}
	}
}

// WithConfigFile loads the application configuration from a YAML file.
// Panics when the file is missing or malformed: a broken configuration
// is a deployment fault, not a runtime condition.
func WithConfigFile(path string) Option {
	return func(f *Framework) {
		cfg, err := LoadConfig(path)
		if err != nil {
			panic(err)
		}
		f.cfg = cfg
	}
}

// WithLogger sets the framework logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(f *Framework) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithController registers a controller constructor under the given
// name. Parameter names are positional and enable by-name autowiring.
//
// Example:
//
//	temma.WithController("article", controllers.NewArticle)
func WithController(name string, ctor any, paramNames ...string) Option {
	params := make([]Param, len(paramNames))
	for i, n := range paramNames {
		params[i] = Param{Name: n}
	}
	return WithControllerParams(name, ctor, params)
}

// WithControllerParams registers a controller constructor with full
// per-parameter specs.
func WithControllerParams(name string, ctor any, params []Param) Option {
	return func(f *Framework) {
		f.regs = append(f.regs, registration{name: name, ctor: ctor, params: params})
	}
}

// WithPlugin registers a plugin constructor under the given name.
// Plugins resolve through the loader exactly like controllers; the
// separate option only states intent.
func WithPlugin(name string, ctor any, paramNames ...string) Option {
	return WithController(name, ctor, paramNames...)
}

// WithView registers a view under the given name.
func WithView(name string, v View) Option {
	return func(f *Framework) {
		if v != nil {
			f.views[name] = v
		}
	}
}

// WithDataSource seeds a named data source into the "dataSources"
// registry of every request loader.
func WithDataSource(name string, src any) Option {
	return func(f *Framework) {
		if src != nil {
			f.dataSources[name] = src
		}
	}
}

// WithSessions enables session management: the HTTP adapter loads the
// session before the pipeline runs (loader key "session") and saves it
// after.
func WithSessions(m *session.Manager) Option {
	return func(f *Framework) {
		f.sessions = m
	}
}

// WithLoaderSetup registers a hook run against the loader of every
// request, after seeding and constructor registration.
//
// Example:
//
//	temma.WithLoaderSetup(func(l *temma.Loader) {
//	    l.SetPrefix("dao/", repo.Resolver(pool))
//	})
func WithLoaderSetup(fn func(*Loader)) Option {
	return func(f *Framework) {
		if fn != nil {
			f.seeders = append(f.seeders, fn)
		}
	}
}
