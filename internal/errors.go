package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the pipeline core.
var (
	// ErrKeyNotFound is returned when the loader cannot resolve a key
	// through any of its resolution paths.
	ErrKeyNotFound = errors.New("temma: loader key not found")

	// ErrNotAController is returned when a resolved value does not
	// implement the Controller interface.
	ErrNotAController = errors.New("temma: resolved value is not a controller")

	// ErrBadConstructor is returned when RegisterType receives something
	// that is not a usable constructor function.
	ErrBadConstructor = errors.New("temma: bad constructor")
)

// HTTPError is a routing or processing failure that maps to an HTTP
// status. Client-class failures (bad controller casing, unknown
// controller without a default) carry 4xx codes; anything escaping a
// controller or plugin is wrapped with a 5xx code by the handler.
type HTTPError struct {
	Err     error
	Message string
	Code    int
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// AsHTTPError extracts an *HTTPError from err, unwrapping as needed.
// Returns nil when err carries none.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// UnresolvedParamError reports a constructor parameter that could not be
// resolved by type, by name, by default value, or by nil.
type UnresolvedParamError struct {
	Target string
	Param  string
}

func (e *UnresolvedParamError) Error() string {
	return fmt.Sprintf("temma: cannot resolve parameter %q of %q", e.Param, e.Target)
}

// UnsupportedParamError reports a constructor signature the loader
// refuses at registration time (variadic parameters). Failing fast here
// prevents silent mis-resolution later.
type UnsupportedParamError struct {
	Target string
	Index  int
}

func (e *UnsupportedParamError) Error() string {
	return fmt.Sprintf("temma: unsupported parameter %d of %q", e.Index, e.Target)
}
