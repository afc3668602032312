// Package temma is a controller-oriented web framework built around an
// explicit execution pipeline and a per-request dependency loader.
//
// Each request flows through name resolution, a pre-plugin chain, the
// controller's init/action/finalize sequence, a post-plugin chain and
// the response phase. Every step returns an execution status (Forward,
// Stop, Halt, Quit, Restart, Reboot) that the framework threads between
// phases, so plugins and controllers redirect the flow without
// exceptions or panics.
//
// Dependencies are resolved through the Loader: a per-request container
// combining stored values (raw, lazy, dynamic), aliases, prefix
// resolvers, registered constructors with declared parameters, and a
// builder of last resort. Controllers themselves are loader entries,
// which is what makes plugins, sub-processing and test doubles uniform.
package temma
