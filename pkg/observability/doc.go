// Package observability provides structured logging, Prometheus metrics,
// and health checks for the userd service.
package observability
