// Package middleware wraps a WorkflowStore with cross-cutting
// behavior: at-rest encryption and sensitive parameter masking.
package middleware

import "github.com/latticehq/lattice/pkg/ports"

// Middleware allows wrapping a WorkflowStore to add behavior.
type Middleware func(ports.WorkflowStore) ports.WorkflowStore
