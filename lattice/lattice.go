// Package lattice discretizes a free-space volume into a regular grid and
// connects the surviving points into a weighted navigation graph.
package lattice

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/geo"
	"github.com/aniti-robotics/flightplan/navgraph"
	"github.com/aniti-robotics/flightplan/spatialindex"
)

// Connectivity selects which grid neighbors a node may connect to.
type Connectivity int

const (
	// Full connects axis-aligned and diagonal grid neighbors (the
	// 26-neighbor analog): query radius resolution*sqrt(2).
	Full Connectivity = iota
	// Partial connects axis-aligned grid neighbors only (the 6-neighbor
	// analog): query radius resolution.
	Partial
)

func (c Connectivity) String() string {
	switch c {
	case Full:
		return "full"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Graph is the arena-backed lattice graph: a contiguous coordinate table
// indexed by node id, with adjacency stored as id-keyed weighted arc lists.
// Node ids follow grid enumeration order (x outer, y middle, z inner).
// A Graph is immutable once built and safe for concurrent searches.
type Graph struct {
	coords []r3.Vec
	adj    [][]navgraph.Arc
	index  *spatialindex.Index
	home   geo.Point

	res   float64
	conn  Connectivity
	edges int
}

var _ navgraph.Graph = (*Graph)(nil)

// NumNodes returns the number of free-space nodes.
func (g *Graph) NumNodes() int { return len(g.coords) }

// At returns the local-frame coordinate of node i.
func (g *Graph) At(i int) r3.Vec { return g.coords[i] }

// Neighbors returns node i's outgoing arcs, sorted by destination id. The
// slice is owned by the graph; callers must not mutate it.
func (g *Graph) Neighbors(i int) []navgraph.Arc { return g.adj[i] }

// Nearest returns the free node closest to q and its distance in meters.
func (g *Graph) Nearest(q r3.Vec) (int, float64, bool) { return g.index.Nearest(q) }

// Home returns the geodetic anchor of the graph's local frame.
func (g *Graph) Home() geo.Point { return g.home }

// NumEdges returns the number of directed arcs in the graph.
func (g *Graph) NumEdges() int { return g.edges }

// Resolution returns the grid step the lattice was built with.
func (g *Graph) Resolution() float64 { return g.res }

// Connectivity returns the connectivity mode the lattice was built with.
func (g *Graph) Connectivity() Connectivity { return g.conn }
