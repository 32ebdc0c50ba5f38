// Package observability exposes Prometheus collectors for the editor
// core: mutation counts by operation and layout timing. Attach the
// Metrics hook to a graph store and serve the registry over /metrics.
package observability
