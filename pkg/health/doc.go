// Package health provides liveness and readiness endpoints with named,
// parallel checks. Data sources expose compatible healthcheck closures.
package health
