// Package views provides the built-in response serializers: JSON, CSV,
// RSS and iCalendar. A view turns the response data map accumulated
// during request processing into bytes on the wire; controllers select
// one by name and the pipeline invokes it after the post-plugins run.
package views
