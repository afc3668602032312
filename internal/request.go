package internal

import (
	"net/http"
	"strings"
)

// Request is the routed view of an inbound path: a controller name, an
// action name and the remaining positional parameters. Pre-plugins may
// rewrite any of the three; the framework recomputes the resolved
// controller after every pre-plugin step.
type Request struct {
	path       string
	controller string
	action     string
	params     []string
}

// ParseRequest splits a URL path into controller, action and parameters.
// Empty segments collapse: "//article//read/12" routes like
// "/article/read/12".
func ParseRequest(path string) *Request {
	req := &Request{path: path}
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) > 0 {
		req.controller = segments[0]
	}
	if len(segments) > 1 {
		req.action = segments[1]
	}
	if len(segments) > 2 {
		req.params = segments[2:]
	}
	return req
}

// FromHTTP builds a Request from an *http.Request path.
func FromHTTP(r *http.Request) *Request {
	return ParseRequest(r.URL.Path)
}

// Path returns the raw path the request was parsed from.
func (r *Request) Path() string { return r.path }

// Controller returns the requested controller name ("" when the path has
// no controller segment).
func (r *Request) Controller() string { return r.controller }

// Action returns the requested action name ("" when absent).
func (r *Request) Action() string { return r.action }

// Params returns the positional parameters following the action segment.
func (r *Request) Params() []string { return r.params }

// SetController reroutes the request to another controller.
func (r *Request) SetController(name string) { r.controller = name }

// SetAction reroutes the request to another action.
func (r *Request) SetAction(name string) { r.action = name }

// SetParams replaces the positional parameters.
func (r *Request) SetParams(params []string) { r.params = params }
