// Package layout computes deterministic 2D positions for a workflow
// graph using layered placement: nodes are ranked by longest path from
// the sources, then spread within each rank. For a fixed graph and
// direction the output is stable across runs.
package layout

import (
	"fmt"

	"github.com/latticehq/lattice/pkg/domain"
)

// Direction selects the main flow axis.
type Direction string

const (
	// DirectionLR lays ranks out left to right.
	DirectionLR Direction = "LR"
	// DirectionTB lays ranks out top to bottom.
	DirectionTB Direction = "TB"
)

// ParseDirection validates a direction string, defaulting to LR when
// empty.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLR, DirectionTB:
		return Direction(s), nil
	case "":
		return DirectionLR, nil
	}
	return "", fmt.Errorf("unknown layout direction %q", s)
}

// Engine holds the spacing parameters of the placement grid.
type Engine struct {
	NodeWidth  float64
	NodeHeight float64
	NodeGap    float64 // spacing between nodes within a rank
	RankGap    float64 // spacing between consecutive ranks
}

// NewEngine returns an engine with canvas-friendly defaults.
func NewEngine() *Engine {
	return &Engine{
		NodeWidth:  180,
		NodeHeight: 80,
		NodeGap:    40,
		RankGap:    120,
	}
}

// Layout returns the node set with recomputed positions. Identity and
// data are untouched and the inputs are never mutated; callers get a
// fresh slice. An empty node list returns an empty result, and an edge
// referencing a missing node is rejected before any placement happens.
func (e *Engine) Layout(nodes []domain.Node, edges []domain.Edge, dir Direction) ([]domain.Node, error) {
	out := make([]domain.Node, len(nodes))
	if len(nodes) == 0 {
		return out, nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
		index[n.ID] = i
	}

	succ := make([][]int, len(nodes))
	inDegree := make([]int, len(nodes))
	for _, edge := range edges {
		si, ok := index[edge.Source]
		if !ok {
			return nil, fmt.Errorf("%w: source %s", domain.ErrDanglingEdge, edge.Source)
		}
		ti, ok := index[edge.Target]
		if !ok {
			return nil, fmt.Errorf("%w: target %s", domain.ErrDanglingEdge, edge.Target)
		}
		succ[si] = append(succ[si], ti)
		inDegree[ti]++
	}

	ranks := e.rank(succ, inDegree)

	// Group by rank preserving input order, which makes the within-rank
	// ordering deterministic.
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	byRank := make([][]int, maxRank+1)
	for i := range out {
		byRank[ranks[i]] = append(byRank[ranks[i]], i)
	}

	for rank, members := range byRank {
		for slot, i := range members {
			main := float64(rank) * (e.sizeAlong(dir) + e.RankGap)
			cross := float64(slot) * (e.sizeAcross(dir) + e.NodeGap)
			if dir == DirectionTB {
				out[i].Position = domain.Position{X: cross, Y: main}
			} else {
				out[i].Position = domain.Position{X: main, Y: cross}
			}
		}
	}
	return out, nil
}

// rank assigns each node the length of the longest source path leading
// to it (Kahn peeling). Cycles never stall the pass: when no node has
// zero in-degree the remaining node earliest in input order is forced
// out, which keeps the result deterministic.
func (e *Engine) rank(succ [][]int, inDegree []int) []int {
	n := len(succ)
	ranks := make([]int, n)
	remaining := make([]bool, n)
	left := n
	for i := range remaining {
		remaining[i] = true
	}

	for left > 0 {
		var current []int
		for i := 0; i < n; i++ {
			if remaining[i] && inDegree[i] == 0 {
				current = append(current, i)
			}
		}
		if len(current) == 0 {
			for i := 0; i < n; i++ {
				if remaining[i] {
					current = []int{i}
					break
				}
			}
		}
		for _, i := range current {
			remaining[i] = false
			left--
			for _, j := range succ[i] {
				inDegree[j]--
				if remaining[j] && ranks[j] < ranks[i]+1 {
					ranks[j] = ranks[i] + 1
				}
			}
		}
	}
	return ranks
}

func (e *Engine) sizeAlong(dir Direction) float64 {
	if dir == DirectionTB {
		return e.NodeHeight
	}
	return e.NodeWidth
}

func (e *Engine) sizeAcross(dir Direction) float64 {
	if dir == DirectionTB {
		return e.NodeWidth
	}
	return e.NodeHeight
}
