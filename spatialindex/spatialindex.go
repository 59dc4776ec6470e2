// Package spatialindex provides nearest-neighbor and radius queries over
// fixed point sets with stable integer ids.
//
// Index handles 3D node coordinates; Flat handles 2D ground footprints.
// Both are built once over a finalized point set and are immutable, so they
// are safe for concurrent queries. Ids are the positions of the points in
// the slice the structure was built from.
package spatialindex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor is one result of a radius or k-nearest query.
type Neighbor struct {
	ID   int
	Dist float64 // meters
}

// node tags a 3D position with its stable id. Distance reports the squared
// Euclidean distance, which is what the kd-tree search compares against.
type node struct {
	pos r3.Vec
	id  int
}

func (n node) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(node)
	switch d {
	case 0:
		return n.pos.X - q.pos.X
	case 1:
		return n.pos.Y - q.pos.Y
	default:
		return n.pos.Z - q.pos.Z
	}
}

func (n node) Dims() int { return 3 }

func (n node) Distance(c kdtree.Comparable) float64 {
	q := c.(node)
	return r3.Norm2(r3.Sub(n.pos, q.pos))
}

type nodes []node

func (p nodes) Index(i int) kdtree.Comparable         { return p[i] }
func (p nodes) Len() int                              { return len(p) }
func (p nodes) Pivot(d kdtree.Dim) int                { return nodePlane{nodes: p, Dim: d}.Pivot() }
func (p nodes) Slice(start, end int) kdtree.Interface { return p[start:end] }

type nodePlane struct {
	kdtree.Dim
	nodes
}

func (p nodePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.nodes[i].pos.X < p.nodes[j].pos.X
	case 1:
		return p.nodes[i].pos.Y < p.nodes[j].pos.Y
	default:
		return p.nodes[i].pos.Z < p.nodes[j].pos.Z
	}
}
func (p nodePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p nodePlane) Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}
func (p nodePlane) Swap(i, j int) {
	p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
}

// Index answers nearest and radius queries over a fixed set of 3D points.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// New builds an index over points. The id of points[i] is i.
func New(points []r3.Vec) *Index {
	ns := make(nodes, len(points))
	for i, p := range points {
		ns[i] = node{pos: p, id: i}
	}
	if len(ns) == 0 {
		return &Index{n: 0}
	}
	return &Index{tree: kdtree.New(ns, false), n: len(ns)}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// Nearest returns the id of the indexed point closest to q and its distance.
// ok is false only for an empty index.
func (ix *Index) Nearest(q r3.Vec) (id int, dist float64, ok bool) {
	if ix.n == 0 {
		return -1, 0, false
	}
	got, d2 := ix.tree.Nearest(node{pos: q, id: -1})
	return got.(node).id, math.Sqrt(d2), true
}

// Within returns every indexed point at distance <= radius from q, sorted by
// id. The query point itself is not special: if q coincides with an indexed
// point that point is included, so callers filter self-hits by id.
func (ix *Index) Within(q r3.Vec, radius float64) []Neighbor {
	if ix.n == 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keep, node{pos: q, id: -1})

	out := make([]Neighbor, 0, keep.Heap.Len())
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue // the keeper's bound sentinel
		}
		out = append(out, Neighbor{ID: c.Comparable.(node).id, Dist: math.Sqrt(c.Dist)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
