// Package planner finds and simplifies collision-free routes over a spatial
// graph.
//
// FindPath runs A* between two geodetic endpoints: each endpoint is
// converted into the graph's local frame and snapped to the nearest free
// node, then the search runs over the graph's weighted adjacency. Shortcut
// collapses redundant waypoints from a found path while keeping every
// remaining segment collision-free.
//
// Searches are read-only over the graph, so a single built graph serves
// concurrent FindPath calls.
package planner

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/navgraph"
)

var (
	// ErrNoPath reports that the search exhausted the frontier without
	// reaching the goal node.
	ErrNoPath = errors.New("planner: no path found")
	// ErrNoNodes reports a search over a graph with no nodes.
	ErrNoNodes = errors.New("planner: graph has no nodes")
	// ErrSnapTooFar reports that the nearest free node to a requested
	// endpoint is farther than Options.MaxSnapDistance away.
	ErrSnapTooFar = errors.New("planner: nearest node too far from requested endpoint")
)

// Heuristic estimates the remaining cost from node i to the goal node. It
// must never overestimate if the returned path is to be optimal.
type Heuristic func(g navgraph.Graph, i, goal int) float64

// Euclidean is the straight-line distance heuristic. It is admissible and
// consistent on graphs whose arc weights are Euclidean distances.
func Euclidean(g navgraph.Graph, i, goal int) float64 {
	return r3.Norm(r3.Sub(g.At(goal), g.At(i)))
}

// Options tune a search. The zero value is usable: Euclidean heuristic and
// no snap limit.
type Options struct {
	// Heuristic for A*; Euclidean when nil.
	Heuristic Heuristic
	// MaxSnapDistance rejects a search when the nearest free node to a
	// converted endpoint is farther than this many meters (ErrSnapTooFar).
	// Zero disables the check, accepting arbitrarily poor snaps as a
	// coarse lattice can produce.
	MaxSnapDistance float64
}

// Path is a found route: graph node ids from the snapped start to the
// snapped goal, and the summed arc cost.
type Path struct {
	Nodes []int
	Cost  float64
}

// SegmentTester answers segment collision queries for Shortcut.
// *world.World satisfies it.
type SegmentTester interface {
	SegmentInCollision(a, b r3.Vec, spacing float64) bool
}

// ResolvePath materializes node ids into local-frame coordinates, in order.
func ResolvePath(g navgraph.Graph, nodes []int) []r3.Vec {
	out := make([]r3.Vec, len(nodes))
	for i, n := range nodes {
		out[i] = g.At(n)
	}
	return out
}
