package domain

import "errors"

var (
	// ErrNodeNotFound is returned when a node ID does not resolve.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when an edge ID does not resolve.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDuplicateNode is returned when adding a node whose ID is taken.
	// Duplicate IDs are rejected, never overwritten.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrDuplicateEdge is returned when adding an edge whose ID is taken.
	ErrDuplicateEdge = errors.New("duplicate edge id")

	// ErrDanglingEdge is returned when an edge references a node that
	// does not exist.
	ErrDanglingEdge = errors.New("edge references missing node")

	// ErrInvalidData is returned when a node payload cannot be decoded
	// into the variant for its type.
	ErrInvalidData = errors.New("invalid node data")

	// ErrWorkflowNotFound is returned by stores when a workflow ID
	// cannot be found.
	ErrWorkflowNotFound = errors.New("workflow not found")
)
