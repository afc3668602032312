package internal

import "net/http"

// Response holds the per-request mutable output state: template
// variables, HTTP error code, redirection, view selection, template path
// and response headers. It is shared by reference across plugins and the
// controller; the pipeline's sequential execution is the only
// synchronization.
type Response struct {
	data           map[string]any
	headers        http.Header
	view           string
	template       string
	templatePrefix string
	redirectURL    string
	redirectCode   int
	httpError      int
	viewDisabled   bool
}

// NewResponse creates an empty response.
func NewResponse() *Response {
	return &Response{
		data:    make(map[string]any),
		headers: make(http.Header),
	}
}

// Set stores a template variable. A nil value deletes the key.
func (r *Response) Set(key string, value any) {
	if value == nil {
		delete(r.data, key)
		return
	}
	r.data[key] = value
}

// SetAll merges every entry of m into the template variables.
func (r *Response) SetAll(m map[string]any) {
	for k, v := range m {
		r.Set(k, v)
	}
}

// Get returns a template variable and whether it exists.
func (r *Response) Get(key string) (any, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Unset deletes a template variable.
func (r *Response) Unset(key string) {
	delete(r.data, key)
}

// All returns the template variables map (live, not a copy).
func (r *Response) All() map[string]any {
	return r.data
}

// SetHTTPError flags the response with an HTTP error code; the response
// phase raises it as a typed HTTPError instead of rendering a view.
func (r *Response) SetHTTPError(code int) {
	r.httpError = code
}

// HTTPError returns the flagged error code, 0 when none.
func (r *Response) HTTPError() int {
	return r.httpError
}

// SetRedirection schedules a redirect. Permanent redirects use 301,
// otherwise 302.
func (r *Response) SetRedirection(url string, permanent bool) {
	r.redirectURL = url
	if permanent {
		r.redirectCode = http.StatusMovedPermanently
	} else {
		r.redirectCode = http.StatusFound
	}
}

// Redirection returns the redirect target and code; url is "" when no
// redirect is set.
func (r *Response) Redirection() (url string, code int) {
	return r.redirectURL, r.redirectCode
}

// SetView selects the view used to render the response.
func (r *Response) SetView(name string) {
	r.view = name
	r.viewDisabled = false
}

// DisableView suppresses view rendering entirely (the controller wrote
// the body itself, or there is nothing to render).
func (r *Response) DisableView() {
	r.viewDisabled = true
}

// View returns the selected view name and whether rendering is enabled.
func (r *Response) View() (string, bool) {
	return r.view, !r.viewDisabled
}

// SetTemplate overrides the computed template path.
func (r *Response) SetTemplate(name string) {
	r.template = name
}

// Template returns the template path ("" until the response phase
// computes it or a controller sets it).
func (r *Response) Template() string {
	return r.template
}

// SetTemplatePrefix prepends a directory to computed template paths.
func (r *Response) SetTemplatePrefix(prefix string) {
	r.templatePrefix = prefix
}

// TemplatePrefix returns the configured template path prefix.
func (r *Response) TemplatePrefix() string {
	return r.templatePrefix
}

// SetHeader sets a response header.
func (r *Response) SetHeader(name, value string) {
	r.headers.Set(name, value)
}

// Headers returns the response headers (live, not a copy).
func (r *Response) Headers() http.Header {
	return r.headers
}
