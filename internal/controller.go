package internal

// Action handles one endpoint of a controller. It receives the request
// loader and the positional URL parameters.
type Action func(l *Loader, params []string) (Status, error)

// Controller handles one logical group of request endpoints. Actions are
// declared through an explicit dispatch table rather than discovered by
// reflection, so the set of reachable endpoints is visible at compile
// time.
//
// Example:
//
//	type Articles struct {
//	    temma.Base
//	    store *repo.Articles
//	}
//
//	func (a *Articles) Actions() map[string]temma.Action {
//	    return map[string]temma.Action{
//	        "index": a.list,
//	        "read":  a.read,
//	    }
//	}
type Controller interface {
	// Init runs before the action. Returning Stop or Halt skips the
	// action and Finalize.
	Init(l *Loader) (Status, error)

	// Finalize runs after the action completed with Forward.
	Finalize(l *Loader) (Status, error)

	// Actions returns the action dispatch table.
	Actions() map[string]Action
}

// CatchAll is an optional controller capability: Unknown handles any
// action missing from the dispatch table instead of producing a 404.
type CatchAll interface {
	Unknown(l *Loader, action string, params []string) (Status, error)
}

// Base provides neutral Controller defaults: embed it and override what
// the controller needs.
type Base struct{}

func (Base) Init(*Loader) (Status, error)     { return Forward, nil }
func (Base) Finalize(*Loader) (Status, error) { return Forward, nil }
func (Base) Actions() map[string]Action       { return nil }

// PrePlugin runs before the controller phase.
type PrePlugin interface {
	PrePlugin(l *Loader) (Status, error)
}

// PostPlugin runs after the controller phase.
type PostPlugin interface {
	PostPlugin(l *Loader) (Status, error)
}

// Plugin is the generic plugin capability, used for a phase when the
// phase-specific interface is not implemented.
type Plugin interface {
	Plugin(l *Loader) (Status, error)
}

// Reserved lifecycle method names. They can never be invoked as actions
// on a controller that also acts as a plugin.
var reservedActions = map[string]bool{
	"init":       true,
	"finalize":   true,
	"preplugin":  true,
	"postplugin": true,
	"plugin":     true,
}

// isPlugin reports whether v exposes any plugin capability.
func isPlugin(v any) bool {
	switch v.(type) {
	case PrePlugin, PostPlugin, Plugin:
		return true
	default:
		return false
	}
}

// InvocationRecord describes one level of controller nesting: which
// controller ran which action, and which controller (if any) spawned it
// through SubProcess. Records form a parent chain, not a tree; plugins
// use it to find the top-level controller of the request.
type InvocationRecord struct {
	Executor   *InvocationRecord
	Controller string
	Action     string
	Params     []string
}

// Top walks the executor chain to the top-level invocation.
func (r *InvocationRecord) Top() *InvocationRecord {
	for r.Executor != nil {
		r = r.Executor
	}
	return r
}
