// Package session provides cookie-based session management with
// pluggable persistence. The Manager loads a session before a request
// is processed and saves it after, so controllers only ever see the
// *Session value; Redis and in-memory stores are included.
package session
