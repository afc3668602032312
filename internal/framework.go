package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/temma-framework/temma/pkg/session"
)

// View renders the response data map to the client. Concrete views live
// in pkg/views; anything matching the shape can be registered.
type View interface {
	// ContentType returns the MIME type the view emits.
	ContentType() string

	// Render writes the body. template is the computed template path
	// ("controller/action", with optional prefix); serialization views
	// may ignore it.
	Render(w io.Writer, data map[string]any, template string) error
}

// registration is a deferred constructor binding, applied to the loader
// of every request.
type registration struct {
	ctor   any
	name   string
	params []Param
}

// Framework orchestrates request processing: it owns the immutable
// configuration, the controller/plugin registrations and the view table,
// and drives the execution pipeline for each request.
type Framework struct {
	cfg         *Config
	logger      *slog.Logger
	sessions    *session.Manager
	views       map[string]View
	dataSources map[string]any
	regs        []registration
	seeders     []func(*Loader)
}

// New creates a framework with the given options. The framework is
// immutable after creation.
//
// Example:
//
//	f := temma.New(
//	    temma.WithConfig(cfg),
//	    temma.WithLogger(logger.New("web")),
//	    temma.WithController("article", controllers.NewArticle),
//	    temma.WithView("json", views.JSON{}),
//	)
func New(opts ...Option) *Framework {
	f := &Framework{
		cfg:         NewConfig(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		views:       make(map[string]View),
		dataSources: make(map[string]any),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the framework configuration.
func (f *Framework) Config() *Config { return f.cfg }

// Logger returns the framework logger.
func (f *Framework) Logger() *slog.Logger { return f.logger }

// NewLoader builds a request loader seeded with the config, request,
// response and framework entries, the data-source registry, every
// registered constructor and the configured aliases. Exposed for test
// harnesses that drive the pipeline without HTTP.
func (f *Framework) NewLoader(ctx context.Context, req *Request, resp *Response) (*Loader, error) {
	l := NewLoader(f.logger)
	l.Set("config", Raw(f.cfg))
	l.Set("request", Raw(req))
	l.Set("response", Raw(resp))
	l.Set("temma", Raw(f))
	l.Set("context", Raw(ctx))

	if len(f.dataSources) > 0 {
		sources := NewRegistry()
		for name, src := range f.dataSources {
			sources.Set(name, src)
		}
		l.Set("dataSources", Raw(sources))
	}

	for _, r := range f.regs {
		if err := l.RegisterTypeWithParams(r.name, r.ctor, r.params); err != nil {
			return nil, err
		}
	}
	l.SetAliases(f.cfg.Loader.Aliases)
	for _, seed := range f.seeders {
		seed(l)
	}
	return l, nil
}

// Process runs one request through the pipeline: name resolution,
// pre-plugins, controller, post-plugins, response. Reboot restarts the
// pipeline against the same request and loader; Quit returns a nil
// response, meaning "produce no output". Guarding against infinite
// reboot loops is the plugin author's responsibility.
//
// Extra seeders mutate the loader before processing starts (the HTTP
// adapter injects the session this way).
func (f *Framework) Process(ctx context.Context, req *Request, seed ...func(*Loader)) (*Response, error) {
	resp := NewResponse()
	resp.SetTemplatePrefix(f.cfg.App.TemplatePrefix)

	loader, err := f.NewLoader(ctx, req, resp)
	if err != nil {
		return resp, err
	}
	for _, s := range seed {
		s(loader)
	}

	for {
		e := &execution{f: f, req: req, resp: resp, loader: loader}
		st, err := e.run()
		if err != nil {
			return resp, err
		}
		switch st {
		case Reboot:
			f.logger.Debug("pipeline reboot", slog.String("path", req.Path()))
			continue
		case Quit:
			return nil, nil
		default:
			return resp, nil
		}
	}
}

// SubProcessFunc invokes a nested controller's init/action/finalize
// chain within the current request. Seeded into every loader under the
// "subprocess" key.
type SubProcessFunc func(controller, action string, params []string) (Status, error)

// SubProcess resolves the current request's subprocess hook and invokes
// the named controller/action. Controllers use it to delegate.
func SubProcess(l *Loader, controller, action string, params []string) (Status, error) {
	v, err := l.Get("subprocess")
	if err != nil {
		return Forward, fmt.Errorf("temma: subprocess outside a request: %w", err)
	}
	fn, ok := v.(SubProcessFunc)
	if !ok {
		return Forward, fmt.Errorf("temma: subprocess entry has unexpected type %T", v)
	}
	return fn(controller, action, params)
}

// execution is the per-pipeline-pass state: resolved names and the
// current invocation record.
type execution struct {
	f             *Framework
	req           *Request
	resp          *Response
	loader        *Loader
	current       *InvocationRecord
	objectName    string // resolved registry key, suffix included
	requestedName string // raw name from the URL ("" for root requests)
	actionName    string
}

func (e *execution) run() (Status, error) {
	e.loader.Set("subprocess", Raw(SubProcessFunc(e.subProcess)))

	if err := e.resolveNames(); err != nil {
		return Forward, err
	}

	st, err := e.runPluginPhase(phasePre)
	if err != nil {
		return Forward, err
	}
	switch st {
	case Quit, Reboot:
		return st, nil
	case Halt:
		return e.respond()
	}

	st, err = e.runController()
	if err != nil {
		return Forward, err
	}
	switch st {
	case Quit, Reboot:
		return st, nil
	case Halt:
		return e.respond()
	}

	st, err = e.runPluginPhase(phasePost)
	if err != nil {
		return Forward, err
	}
	switch st {
	case Quit, Reboot:
		return st, nil
	}
	return e.respond()
}

// resolveNames computes the controller and action names. Priority:
// proxy controller > requested controller > root controller > default
// controller. The requested name must start with a lowercase letter
// (client error otherwise); routes are chased recursively up to
// maxRouteDepth; the configured suffix is appended when absent; an
// unresolvable name falls back to the default controller, and a
// registered name matching only case-insensitively is a 404, never a
// silent substitution.
func (e *execution) resolveNames() error {
	cfg := e.f.cfg
	requested := e.req.Controller()

	if requested != "" && cfg.App.ProxyController == "" {
		r, _ := utf8.DecodeRuneInString(requested)
		if unicode.IsUpper(r) {
			return NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("controller %q must start with a lowercase letter", requested))
		}
	}

	name := cfg.App.ProxyController
	if name == "" {
		name = requested
	}
	if name == "" {
		name = cfg.App.RootController
	}
	if name == "" {
		name = cfg.App.DefaultController
	}
	if name == "" {
		return NewHTTPError(http.StatusNotFound, "no controller to handle the request")
	}

	for depth := 0; depth < maxRouteDepth; depth++ {
		target, ok := cfg.Routes[name]
		if !ok {
			break
		}
		e.f.logger.Debug("route substitution",
			slog.String("from", name), slog.String("to", target))
		name = target
	}

	object := withSuffix(name, cfg.App.ControllerSuffix)
	if !e.resolvable(object) {
		if e.caseMismatch(object) {
			return NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("controller %q differs from a registered controller only by case", object))
		}
		def := cfg.App.DefaultController
		if def == "" {
			return NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("unknown controller %q", object))
		}
		object = withSuffix(def, cfg.App.ControllerSuffix)
		if !e.resolvable(object) {
			return NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("default controller %q is not registered", object))
		}
	}

	action := e.req.Action()
	if action == "" {
		action = rootActionName
	}

	e.objectName = object
	e.requestedName = requested
	e.actionName = action
	return nil
}

// resolvable reports whether a controller name can be served: a
// registered constructor, a stored loader entry, or a matching prefix.
func (e *execution) resolvable(name string) bool {
	if e.loader.HasType(name) || e.loader.Has(name) {
		return true
	}
	for _, p := range e.loader.prefixes {
		if strings.HasPrefix(name, p.name) {
			return true
		}
	}
	return false
}

// caseMismatch reports whether a registered constructor matches name
// modulo case only.
func (e *execution) caseMismatch(name string) bool {
	for registered := range e.loader.ctors {
		if registered != name && strings.EqualFold(registered, name) {
			return true
		}
	}
	return false
}

// runPluginPhase drives one plugin chain. After every pre-plugin the
// controller/action names are recomputed, since a plugin may reroute the
// request; Restart regenerates the chain (tolerating a renamed
// controller) and resets the cursor.
func (e *execution) runPluginPhase(ph phase) (Status, error) {
	names := e.f.cfg.Plugins.chain(ph, e.objectName, e.requestedName, e.actionName)
	for i := 0; i < len(names); {
		st, err := stepStatus(e.runPlugin(names[i], ph))
		if err != nil {
			return Forward, fmt.Errorf("plugin %q: %w", names[i], err)
		}
		if ph == phasePre {
			if err := e.resolveNames(); err != nil {
				return Forward, err
			}
		}
		switch st {
		case Restart:
			names = e.f.cfg.Plugins.chain(ph, e.objectName, e.requestedName, e.actionName)
			i = 0
		case Forward:
			i++
		default:
			return st, nil
		}
	}
	return Forward, nil
}

// runPlugin resolves a plugin through the loader and invokes its
// phase-specific method, falling back to the generic Plugin capability.
func (e *execution) runPlugin(name string, ph phase) (Status, error) {
	v, err := e.loader.Get(name)
	if err != nil {
		return Forward, err
	}
	if ph == phasePre {
		if p, ok := v.(PrePlugin); ok {
			return p.PrePlugin(e.loader)
		}
	} else {
		if p, ok := v.(PostPlugin); ok {
			return p.PostPlugin(e.loader)
		}
	}
	if p, ok := v.(Plugin); ok {
		return p.Plugin(e.loader)
	}
	return Forward, fmt.Errorf("%q implements no plugin interface", name)
}

func (e *execution) runController() (Status, error) {
	return e.invokeController(e.objectName, e.actionName, e.req.Params(), nil)
}

// subProcess is the nested-invocation hook: the caller's record becomes
// the executor of the nested one.
func (e *execution) subProcess(controller, action string, params []string) (Status, error) {
	executor := e.current
	name := withSuffix(controller, e.f.cfg.App.ControllerSuffix)
	return e.invokeController(name, action, params, executor)
}

// invokeController runs a controller's init/action/finalize chain.
// Restart from any of the three steps re-runs the chain from Init;
// Stop and Halt from Init skip the action and Finalize.
func (e *execution) invokeController(name, action string, params []string, executor *InvocationRecord) (Status, error) {
	v, err := e.loader.Get(name)
	if err != nil {
		return Forward, fmt.Errorf("controller %q: %w", name, err)
	}
	ctrl, ok := v.(Controller)
	if !ok {
		return Forward, fmt.Errorf("%w: %q resolved to %T", ErrNotAController, name, v)
	}
	if reservedActions[action] && isPlugin(ctrl) {
		return Forward, fmt.Errorf("temma: reserved method %q of plugin %q invoked as action", action, name)
	}

	rec := &InvocationRecord{
		Controller: name,
		Action:     action,
		Params:     params,
		Executor:   executor,
	}
	prev := e.current
	e.current = rec
	e.loader.Set("invocation", Raw(rec))
	defer func() {
		e.current = prev
		if prev != nil {
			e.loader.Set("invocation", Raw(prev))
		}
	}()

	for {
		st, err := stepStatus(ctrl.Init(e.loader))
		if err != nil {
			return Forward, fmt.Errorf("controller %q init: %w", name, err)
		}
		if st == Restart {
			continue
		}
		if st != Forward {
			return st, nil
		}

		fn, found := ctrl.Actions()[action]
		if found {
			st, err = stepStatus(fn(e.loader, params))
		} else if catchAll, ok := ctrl.(CatchAll); ok {
			st, err = stepStatus(catchAll.Unknown(e.loader, action, params))
		} else {
			return Forward, NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("controller %q has no action %q", name, action))
		}
		if err != nil {
			return Forward, fmt.Errorf("controller %q action %q: %w", name, action, err)
		}
		if st == Restart {
			continue
		}
		if st != Forward {
			return st, nil
		}

		st, err = stepStatus(ctrl.Finalize(e.loader))
		if err != nil {
			return Forward, fmt.Errorf("controller %q finalize: %w", name, err)
		}
		if st == Restart {
			continue
		}
		return st, nil
	}
}

// respond runs the response phase: a flagged HTTP error wins, then a
// redirection, otherwise view selection and template path computation.
func (e *execution) respond() (Status, error) {
	if code := e.resp.HTTPError(); code != 0 {
		return Forward, NewHTTPError(code, "")
	}
	if url, _ := e.resp.Redirection(); url != "" {
		return Forward, nil
	}

	if name, enabled := e.resp.View(); enabled && name == "" {
		e.resp.SetView(e.f.cfg.App.DefaultView)
	}
	if e.resp.Template() == "" {
		ctrl := e.requestedName
		if ctrl == "" {
			ctrl = strings.TrimSuffix(e.objectName, e.f.cfg.App.ControllerSuffix)
		}
		e.resp.SetTemplate(path.Join(e.resp.TemplatePrefix(), ctrl, e.actionName))
	}
	return Forward, nil
}

func withSuffix(name, suffix string) string {
	if suffix == "" || strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}
