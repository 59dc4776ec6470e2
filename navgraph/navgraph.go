// Package navgraph defines the spatial-graph contract shared by graph
// builders and graph consumers.
//
// A spatial graph is a finished, read-only structure: indexed 3D points in
// the local frame, weighted adjacency between them, a nearest-node query,
// and the geodetic home reference its frame is anchored at. The lattice
// builder produces one; the path finder and simplifier consume one. Any
// other builder (a sampled roadmap, for instance) that satisfies Graph plugs
// into the same search code.
package navgraph

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/geo"
)

// Arc is one weighted, directed adjacency entry.
type Arc struct {
	To     int
	Weight float64
}

// Graph is an immutable free-space connectivity graph. Node ids are dense
// integers in [0, NumNodes). Implementations must be safe for concurrent
// read-only use.
type Graph interface {
	// NumNodes returns the node count.
	NumNodes() int
	// At returns the local-frame coordinate of node i.
	At(i int) r3.Vec
	// Neighbors returns the weighted adjacency of node i. Callers must not
	// mutate the returned slice.
	Neighbors(i int) []Arc
	// Nearest returns the node closest to q and its distance in meters.
	// ok is false only when the graph has no nodes.
	Nearest(q r3.Vec) (i int, dist float64, ok bool)
	// Home returns the geodetic anchor of the graph's local frame.
	Home() geo.Point
}
