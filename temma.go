package temma

import (
	"context"
	"log/slog"
	"time"

	"github.com/temma-framework/temma/internal"
	"github.com/temma-framework/temma/pkg/health"
	"github.com/temma-framework/temma/pkg/logger"
	"github.com/temma-framework/temma/pkg/session"
)

// Type aliases - public API
type (
	// Framework orchestrates request processing: name resolution,
	// plugin phases, controller invocation and the response phase.
	Framework = internal.Framework

	// Status steers the pipeline; every lifecycle method returns one.
	Status = internal.Status

	// Loader is the per-request dependency container. Controllers,
	// plugins and data sources are all resolved through it.
	Loader = internal.Loader

	// Registry is an insertion-ordered key/value store, used standalone
	// and as the storage layer of the Loader.
	Registry = internal.Registry

	// Request is the parsed controller/action/parameters triple.
	Request = internal.Request

	// Response accumulates template variables, headers and view
	// selection during processing.
	Response = internal.Response

	// Controller is the contract of request handlers.
	Controller = internal.Controller

	// CatchAll is the optional fallback for unmapped actions.
	CatchAll = internal.CatchAll

	// Base provides default Init/Finalize/Actions; embed it in
	// controllers that don't need all three.
	Base = internal.Base

	// Action is the signature of controller action functions.
	Action = internal.Action

	// PrePlugin runs before the controller.
	PrePlugin = internal.PrePlugin

	// PostPlugin runs after the controller.
	PostPlugin = internal.PostPlugin

	// Plugin is the generic fallback for both plugin phases.
	Plugin = internal.Plugin

	// Param declares one constructor parameter: its loader name and
	// optional default.
	Param = internal.Param

	// BuilderFunc is the loader's last-resort factory for unknown keys.
	BuilderFunc = internal.BuilderFunc

	// ResolverFunc serves all keys under a registered prefix.
	ResolverFunc = internal.ResolverFunc

	// InvocationRecord tracks the controller invocation chain; nested
	// invocations point at their executor.
	InvocationRecord = internal.InvocationRecord

	// SubProcessFunc invokes a nested controller within the current
	// request.
	SubProcessFunc = internal.SubProcessFunc

	// Config is the application configuration.
	Config = internal.Config

	// AppConfig is the application section of the configuration.
	AppConfig = internal.AppConfig

	// PluginsConfig declares the global and scoped plugin chains.
	PluginsConfig = internal.PluginsConfig

	// LoaderConfig is the loader section of the configuration.
	LoaderConfig = internal.LoaderConfig

	// View renders the response data map to the client.
	View = internal.View

	// HTTPError carries an HTTP status code through error returns.
	HTTPError = internal.HTTPError

	// Option configures the framework.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger.New to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// SessionManager loads and saves sessions around request processing.
	SessionManager = session.Manager
)

// Execution statuses.
const (
	// Forward continues normal processing with the next step.
	Forward = internal.Forward

	// Stop aborts the remaining steps of the current phase only.
	Stop = internal.Stop

	// Halt skips straight to the response phase.
	Halt = internal.Halt

	// Quit aborts the whole pipeline and produces no output.
	Quit = internal.Quit

	// Restart re-runs the current phase from the start.
	Restart = internal.Restart

	// Reboot restarts the entire pipeline from name resolution.
	Reboot = internal.Reboot
)

// Errors for checking return values.
var (
	ErrKeyNotFound    = internal.ErrKeyNotFound
	ErrNotAController = internal.ErrNotAController
	ErrBadConstructor = internal.ErrBadConstructor
	ErrConfigNotFound = internal.ErrConfigNotFound

	ErrSessionNotFound = session.ErrNotFound
	ErrSessionExpired  = session.ErrExpired
)

// Constructors

// New creates a framework with the given options. The framework is
// immutable after creation.
//
// Example:
//
//	f := temma.New(
//	    temma.WithConfigFile("etc/temma.yaml"),
//	    temma.WithLogger(logger.New("web")),
//	    temma.WithController("article", controllers.NewArticle, "db"),
//	    temma.WithView("json", views.NewJSON()),
//	)
//
//	err := f.Run(":8080", temma.Logger(log))
func New(opts ...Option) *Framework {
	return internal.New(opts...)
}

// NewConfig returns a configuration with defaults applied.
func NewConfig() *Config {
	return internal.NewConfig()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return internal.LoadConfig(path)
}

// NewRegistry creates a registry, optionally seeded from maps.
func NewRegistry(init ...map[string]any) *Registry {
	return internal.NewRegistry(init...)
}

// NewLoader creates a standalone loader. The framework builds one per
// request automatically; direct construction is for scripts and tests.
func NewLoader(l *slog.Logger, init ...map[string]any) *Loader {
	return internal.NewLoader(l, init...)
}

// ParseRequest splits an URL path into controller, action and
// parameters.
func ParseRequest(path string) *Request {
	return internal.ParseRequest(path)
}

// NewResponse creates an empty response.
func NewResponse() *Response {
	return internal.NewResponse()
}

// NewHTTPError creates an error carrying an HTTP status code.
// Returning it from an action maps to that status on the wire.
//
// Example:
//
//	return temma.Forward, temma.NewHTTPError(http.StatusForbidden, "admins only")
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// AsHTTPError extracts an *HTTPError from an error chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Interrupt returns an error the phase loops convert back into the
// given status. Use it to change the flow from helpers several frames
// below an action.
func Interrupt(s Status) error {
	return internal.Interrupt(s)
}

// InterruptStatus extracts the status from an Interrupt error.
func InterruptStatus(err error) (Status, bool) {
	return internal.InterruptStatus(err)
}

// SubProcess invokes a nested controller's init/action/finalize chain
// within the current request.
//
// Example:
//
//	st, err := temma.SubProcess(l, "sitemap", "generate", nil)
func SubProcess(l *Loader, controller, action string, params []string) (Status, error) {
	return internal.SubProcess(l, controller, action, params)
}

// Loader value wrappers

// Dynamic stores a factory invoked on every Get of its key.
func Dynamic(fn func(l *Loader) (any, error)) any {
	return internal.Dynamic(fn)
}

// Lazy stores a factory invoked on first Get; the result replaces it.
func Lazy(fn func(l *Loader) (any, error)) any {
	return internal.Lazy(fn)
}

// Raw stores a value literally, shielding functions from invocation.
func Raw(v any) any {
	return internal.Raw(v)
}

// Framework options

// WithConfig sets the configuration.
func WithConfig(cfg *Config) Option {
	return internal.WithConfig(cfg)
}

// WithConfigFile loads the configuration from a YAML file.
// Panics when the file cannot be read: a missing configuration is a
// deployment fault, not a runtime condition.
func WithConfigFile(path string) Option {
	return internal.WithConfigFile(path)
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithController registers a controller constructor under a name.
// paramNames bind the constructor's parameters to loader keys, in
// order.
//
// Example:
//
//	temma.WithController("article", controllers.NewArticle, "db", "cache")
func WithController(name string, ctor any, paramNames ...string) Option {
	return internal.WithController(name, ctor, paramNames...)
}

// WithControllerParams registers a controller constructor with full
// parameter declarations (defaults, optionality).
func WithControllerParams(name string, ctor any, params []Param) Option {
	return internal.WithControllerParams(name, ctor, params)
}

// WithPlugin registers a plugin constructor under a name. Plugins are
// controllers; the separate option only reads better at call sites.
func WithPlugin(name string, ctor any, paramNames ...string) Option {
	return internal.WithPlugin(name, ctor, paramNames...)
}

// WithView registers a view under a name.
func WithView(name string, v View) Option {
	return internal.WithView(name, v)
}

// WithDataSource registers a named data source, retrievable through
// the loader's "dataSources" registry.
func WithDataSource(name string, src any) Option {
	return internal.WithDataSource(name, src)
}

// WithSessions enables session management. The HTTP adapter loads the
// session before processing and saves it after; controllers retrieve
// it from the loader under the "session" key.
//
// Example:
//
//	store := session.NewRedisStore(client)
//	temma.WithSessions(session.NewManager(store))
func WithSessions(m *session.Manager) Option {
	return internal.WithSessions(m)
}

// WithLoaderSetup registers a hook run against every request's loader
// after the built-in entries are seeded.
func WithLoaderSetup(fn func(*Loader)) Option {
	return internal.WithLoaderSetup(fn)
}

// Run options

// Logger sets the server runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run during server startup, after
// the port is bound but before serving requests. A failing hook stops
// the server.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// ReadinessCheck adds a named readiness check, served at /health/ready.
// Checks run in parallel during the probe.
func ReadinessCheck(name string, fn health.CheckFunc) RunOption {
	return internal.ReadinessCheck(name, fn)
}

// WithContext sets a custom base context for signal handling.
// Defaults to context.Background().
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Loader helpers

// Value retrieves a typed value from the loader.
// Returns an error when the key is missing or the type doesn't match.
//
// Example:
//
//	db, err := temma.Value[*datasource.SQL](l, "db")
func Value[T any](l *Loader, key string) (T, error) {
	var zero T
	v, err := l.Get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, ErrKeyNotFound
	}
	return t, nil
}

// ValueOr retrieves a typed value from the loader, falling back to a
// default when the key is missing or the type doesn't match.
func ValueOr[T any](l *Loader, key string, defaultVal T) T {
	if v, err := Value[T](l, key); err == nil {
		return v
	}
	return defaultVal
}

// Session helpers

// SessionValue retrieves a typed session value.
//
// Example:
//
//	theme, err := temma.SessionValue[string](sess, "theme")
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr retrieves a typed session value with a default.
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}
