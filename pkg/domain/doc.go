// Package domain holds the core types of the workflow graph edit model:
// nodes, edges, typed node payloads, workflows and the errors shared by
// every layer. It has no dependencies on adapters or stores.
package domain
