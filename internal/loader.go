package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// BuilderFunc is the loader's fallback resolver, invoked when no stored
// entry, prefix or registered constructor can satisfy a key.
type BuilderFunc func(l *Loader, key string) (any, error)

// ResolverFunc resolves a key suffix for a registered prefix.
type ResolverFunc func(l *Loader, suffix string) (any, error)

// Loader is the dependency-injection container. It extends Registry with
// deferred values (dynamic, lazy), aliases, prefix resolvers, an explicit
// constructor table and a builder fallback.
//
// A Loader is created once per request, pre-seeded with the config,
// request, response, session and framework entries, mutated by plugins
// through the request lifetime and discarded at request end. Like the
// Registry it has no lock: the pipeline guarantees a single sequential
// writer.
type Loader struct {
	*Registry
	logger   *slog.Logger
	builder  BuilderFunc
	ctors    map[string]*constructor
	prefixes []prefixEntry
}

type prefixEntry struct {
	resolver ResolverFunc
	name     string
	template string
}

// NewLoader creates a loader, optionally pre-filled from maps.
func NewLoader(logger *slog.Logger, init ...map[string]any) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{
		Registry: NewRegistry(init...),
		logger:   logger,
		ctors:    make(map[string]*constructor),
	}
}

// Deferred-value wrappers.

type dynamicEntry struct{ fn func(*Loader) (any, error) }
type lazyEntry struct{ fn func(*Loader) (any, error) }
type rawEntry struct{ v any }

// Dynamic wraps a function that is re-invoked on every Get of its key.
// The result is never cached.
func Dynamic(fn func(l *Loader) (any, error)) any {
	return &dynamicEntry{fn: fn}
}

// Lazy wraps a function that is invoked once, on the first Get of its
// key; the result replaces the wrapper in place.
func Lazy(fn func(l *Loader) (any, error)) any {
	return &lazyEntry{fn: fn}
}

// Raw stores a value literally, shielding functions from the loader's
// invoke-on-get behavior.
func Raw(v any) any {
	return &rawEntry{v: v}
}

// SetAlias stores a dynamic redirection: every Get of key re-resolves
// target, so the alias tracks later changes to the target entry.
func (l *Loader) SetAlias(key, target string) {
	l.Set(key, Dynamic(func(l *Loader) (any, error) {
		return l.Get(target)
	}))
}

// SetAliases registers every alias of the given map.
func (l *Loader) SetAliases(aliases map[string]string) {
	for k, t := range aliases {
		l.SetAlias(k, t)
	}
}

// SetPrefix registers a prefix resolver, consulted in registration order
// when a direct key lookup misses. The value is either a ResolverFunc
// invoked with the key suffix, or a string template: the target name is
// template+suffix, resolved through the constructor table.
func (l *Loader) SetPrefix(name string, value any) error {
	if name == "" {
		return errors.New("temma: empty loader prefix")
	}
	switch v := value.(type) {
	case ResolverFunc:
		l.prefixes = append(l.prefixes, prefixEntry{name: name, resolver: v})
	case func(*Loader, string) (any, error):
		l.prefixes = append(l.prefixes, prefixEntry{name: name, resolver: v})
	case string:
		l.prefixes = append(l.prefixes, prefixEntry{name: name, template: v})
	default:
		return fmt.Errorf("temma: prefix %q: value must be a string or a resolver func", name)
	}
	return nil
}

// SetPrefixes registers every prefix of the given map. Map iteration is
// unordered, so entries are registered in sorted key order to keep prefix
// precedence deterministic.
func (l *Loader) SetPrefixes(prefixes map[string]any) error {
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := l.SetPrefix(name, prefixes[name]); err != nil {
			return err
		}
	}
	return nil
}

// SetBuilder registers the fallback resolver.
func (l *Loader) SetBuilder(fn BuilderFunc) {
	l.builder = fn
}

// Param declares one constructor parameter for injection. Name enables
// by-name resolution (Go reflection cannot recover parameter names, so
// they are part of the registration). Optional parameters resolve to nil
// when nothing matches; a Default wins over nil.
type Param struct {
	Default    any
	Name       string
	HasDefault bool
	Optional   bool
}

// constructor is a registered injectable type.
type constructor struct {
	fn       reflect.Value
	name     string
	params   []ctorParam
	loadable bool
}

type ctorParam struct {
	typ        reflect.Type
	def        any
	name       string
	hasDefault bool
	optional   bool
}

// paramTypeCache memoizes reflection-derived parameter types per
// constructor identity. It is process-wide and read-mostly: requests run
// concurrently over the same registrations, hence sync.Map. Only type
// facts live here; names and defaults belong to each registration.
var paramTypeCache sync.Map // uintptr -> []reflect.Type

func cachedParamTypes(fn reflect.Value) []reflect.Type {
	key := fn.Pointer()
	if v, ok := paramTypeCache.Load(key); ok {
		return v.([]reflect.Type)
	}
	t := fn.Type()
	types := make([]reflect.Type, t.NumIn())
	for i := range types {
		types[i] = t.In(i)
	}
	actual, _ := paramTypeCache.LoadOrStore(key, types)
	return actual.([]reflect.Type)
}

// RegisterType binds a name to a constructor function. Parameter names
// are positional and optional; they enable by-name resolution for the
// corresponding parameters.
//
// Constructor shapes: func(...) T or func(...) (T, error). The special
// shape func(*Loader) (T, error) is a Loadable: it is constructed with
// the loader as sole argument, bypassing parameter matching.
func (l *Loader) RegisterType(name string, ctor any, paramNames ...string) error {
	params := make([]Param, len(paramNames))
	for i, n := range paramNames {
		params[i] = Param{Name: n}
	}
	return l.RegisterTypeWithParams(name, ctor, params)
}

// RegisterTypeWithParams binds a name to a constructor with full
// per-parameter specs (names, defaults, optionality).
func (l *Loader) RegisterTypeWithParams(name string, ctor any, params []Param) error {
	if ctor == nil {
		return fmt.Errorf("%w: %q: nil constructor", ErrBadConstructor, name)
	}
	fn := reflect.ValueOf(ctor)
	t := fn.Type()
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("%w: %q: not a function", ErrBadConstructor, name)
	}
	if t.NumOut() < 1 || t.NumOut() > 2 || (t.NumOut() == 2 && t.Out(1) != errorType) {
		return fmt.Errorf("%w: %q: must return (T) or (T, error)", ErrBadConstructor, name)
	}
	if t.IsVariadic() {
		return &UnsupportedParamError{Target: name, Index: t.NumIn() - 1}
	}

	c := &constructor{name: name, fn: fn}
	if t.NumIn() == 1 && t.In(0) == loaderType {
		c.loadable = true
		l.ctors[name] = c
		return nil
	}

	types := cachedParamTypes(fn)
	c.params = make([]ctorParam, len(types))
	for i, pt := range types {
		cp := ctorParam{typ: pt}
		if i < len(params) {
			cp.name = params[i].Name
			cp.def = params[i].Default
			cp.hasDefault = params[i].HasDefault
			cp.optional = params[i].Optional
		}
		c.params[i] = cp
	}
	l.ctors[name] = c
	return nil
}

// HasType reports whether a constructor is registered under name.
func (l *Loader) HasType(name string) bool {
	_, ok := l.ctors[name]
	return ok
}

// Logger returns the loader's logger.
func (l *Loader) Logger() *slog.Logger {
	return l.logger
}

// Get resolves a key. Resolution order: the two special keys ("loader"
// resolves to the loader itself, "logger" to its logger), then a stored
// entry (dynamic wrappers re-invoked, lazy wrappers invoked once and
// cached, plain functions invoked once with autowired arguments and
// cached, anything else returned as-is), then prefixes in registration
// order, then a registered constructor for the key itself, then the
// builder. A key that survives every path yields ErrKeyNotFound.
func (l *Loader) Get(key string) (any, error) {
	switch key {
	case "loader":
		return l, nil
	case "logger":
		return l.logger, nil
	}

	if v, ok := l.Registry.Get(key); ok {
		switch e := v.(type) {
		case *dynamicEntry:
			return e.fn(l)
		case *lazyEntry:
			val, err := e.fn(l)
			if err != nil {
				return nil, err
			}
			l.Registry.Set(key, &rawEntry{v: val})
			return val, nil
		case *rawEntry:
			return e.v, nil
		default:
			if reflect.ValueOf(v).Kind() == reflect.Func {
				val, err := l.invoke(key, reflect.ValueOf(v), nil)
				if err != nil {
					return nil, err
				}
				l.Registry.Set(key, &rawEntry{v: val})
				return val, nil
			}
			return v, nil
		}
	}

	for _, p := range l.prefixes {
		if !strings.HasPrefix(key, p.name) {
			continue
		}
		suffix := strings.TrimPrefix(key, p.name)
		if p.resolver != nil {
			val, err := p.resolver(l, suffix)
			if err == nil {
				l.Registry.Set(key, &rawEntry{v: val})
				return val, nil
			}
			l.logger.Debug("loader prefix resolution failed",
				slog.String("key", key),
				slog.String("prefix", p.name),
				slog.Any("error", err))
		} else if c, ok := l.ctors[p.template+suffix]; ok {
			val, err := l.instantiate(c)
			if err == nil {
				l.Registry.Set(key, &rawEntry{v: val})
				return val, nil
			}
			if isParamError(err) {
				return nil, err
			}
		}
		// Only the first matching prefix is consulted.
		break
	}

	if c, ok := l.ctors[key]; ok {
		val, err := l.instantiate(c)
		if err == nil {
			l.Registry.Set(key, &rawEntry{v: val})
			return val, nil
		}
		if isParamError(err) {
			return nil, err
		}
		// Other instantiation failures fall through to the builder.
		l.logger.Debug("loader instantiation failed",
			slog.String("key", key),
			slog.Any("error", err))
	}

	if l.builder != nil {
		val, err := l.builder(l, key)
		if err == nil {
			return val, nil
		}
		l.logger.Debug("loader builder failed",
			slog.String("key", key),
			slog.Any("error", err))
	}

	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

// GetDefault resolves a key, falling back to def on any failure. A def of
// shape func() any or func(*Loader) any is invoked; anything else is
// returned literally. GetDefault never returns an error.
func (l *Loader) GetDefault(key string, def any) any {
	if v, err := l.Get(key); err == nil {
		return v
	}
	switch fn := def.(type) {
	case func() any:
		return fn()
	case func(*Loader) any:
		return fn(l)
	default:
		return def
	}
}

// isParamError reports whether err is one of the typed autowiring errors
// that must propagate instead of falling through to the builder chain.
func isParamError(err error) bool {
	var unresolved *UnresolvedParamError
	var unsupported *UnsupportedParamError
	return errors.As(err, &unresolved) || errors.As(err, &unsupported)
}

// instantiate builds the value of a registered constructor.
func (l *Loader) instantiate(c *constructor) (any, error) {
	if c.loadable {
		return callResult(c.name, c.fn.Call([]reflect.Value{reflect.ValueOf(l)}))
	}
	args := make([]reflect.Value, len(c.params))
	for i, p := range c.params {
		v, err := l.resolveParam(c.name, p)
		if err != nil {
			return nil, err
		}
		if v == nil {
			args[i] = reflect.Zero(p.typ)
		} else {
			args[i] = reflect.ValueOf(v)
		}
	}
	return callResult(c.name, c.fn.Call(args))
}

// invoke calls a bare stored function, autowiring its parameters by type
// only (stored functions carry no registered parameter names).
func (l *Loader) invoke(key string, fn reflect.Value, names []string) (any, error) {
	t := fn.Type()
	if t.IsVariadic() {
		return nil, &UnsupportedParamError{Target: key, Index: t.NumIn() - 1}
	}
	if t.NumOut() < 1 || t.NumOut() > 2 || (t.NumOut() == 2 && t.Out(1) != errorType) {
		return nil, fmt.Errorf("%w: %q: must return (T) or (T, error)", ErrBadConstructor, key)
	}
	if t.NumIn() == 1 && t.In(0) == loaderType {
		return callResult(key, fn.Call([]reflect.Value{reflect.ValueOf(l)}))
	}
	types := cachedParamTypes(fn)
	args := make([]reflect.Value, len(types))
	for i, pt := range types {
		p := ctorParam{typ: pt}
		if i < len(names) {
			p.name = names[i]
		}
		v, err := l.resolveParam(key, p)
		if err != nil {
			return nil, err
		}
		if v == nil {
			args[i] = reflect.Zero(pt)
		} else {
			args[i] = reflect.ValueOf(v)
		}
	}
	return callResult(key, fn.Call(args))
}

// resolveParam applies the fixed parameter resolution priority: declared
// type, registered name, registration default, nil for optional
// parameters. Anything else is an UnresolvedParamError naming the
// parameter.
func (l *Loader) resolveParam(target string, p ctorParam) (any, error) {
	if p.typ != anyType {
		if v, err := l.Get(typeKey(p.typ)); err == nil && checkType(v, p.typ) {
			return v, nil
		}
	}
	if p.name != "" {
		if v, err := l.Get(p.name); err == nil {
			if p.typ == anyType || checkType(v, p.typ) {
				return v, nil
			}
		}
	}
	if p.hasDefault && checkType(p.def, p.typ) {
		return p.def, nil
	}
	if p.optional && nilable(p.typ) {
		return nil, nil
	}
	name := p.name
	if name == "" {
		name = typeKey(p.typ)
	}
	return nil, &UnresolvedParamError{Target: target, Param: name}
}

// callResult unwraps a reflective constructor call into (value, error).
func callResult(target string, out []reflect.Value) (any, error) {
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("temma: constructor %q: %w", target, out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}
