package spatialindex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// XY is a 2D point, used for obstacle ground footprints.
type XY struct {
	X, Y float64
}

type flatNode struct {
	pos XY
	id  int
}

func (n flatNode) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(flatNode)
	if d == 0 {
		return n.pos.X - q.pos.X
	}
	return n.pos.Y - q.pos.Y
}

func (n flatNode) Dims() int { return 2 }

func (n flatNode) Distance(c kdtree.Comparable) float64 {
	q := c.(flatNode)
	dx := n.pos.X - q.pos.X
	dy := n.pos.Y - q.pos.Y
	return dx*dx + dy*dy
}

type flatNodes []flatNode

func (p flatNodes) Index(i int) kdtree.Comparable         { return p[i] }
func (p flatNodes) Len() int                              { return len(p) }
func (p flatNodes) Pivot(d kdtree.Dim) int                { return flatPlane{flatNodes: p, Dim: d}.Pivot() }
func (p flatNodes) Slice(start, end int) kdtree.Interface { return p[start:end] }

type flatPlane struct {
	kdtree.Dim
	flatNodes
}

func (p flatPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.flatNodes[i].pos.X < p.flatNodes[j].pos.X
	}
	return p.flatNodes[i].pos.Y < p.flatNodes[j].pos.Y
}
func (p flatPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p flatPlane) Slice(start, end int) kdtree.SortSlicer {
	p.flatNodes = p.flatNodes[start:end]
	return p
}
func (p flatPlane) Swap(i, j int) {
	p.flatNodes[i], p.flatNodes[j] = p.flatNodes[j], p.flatNodes[i]
}

// Flat answers k-nearest queries over a fixed set of 2D points.
type Flat struct {
	tree *kdtree.Tree
	n    int
}

// NewFlat builds a 2D index over points. The id of points[i] is i.
func NewFlat(points []XY) *Flat {
	ns := make(flatNodes, len(points))
	for i, p := range points {
		ns[i] = flatNode{pos: p, id: i}
	}
	if len(ns) == 0 {
		return &Flat{n: 0}
	}
	return &Flat{tree: kdtree.New(ns, false), n: len(ns)}
}

// Len returns the number of indexed points.
func (f *Flat) Len() int { return f.n }

// KNearest returns up to k indexed points closest to q, ordered by
// increasing distance with ties broken by id.
func (f *Flat) KNearest(q XY, k int) []Neighbor {
	if f.n == 0 || k <= 0 {
		return nil
	}
	keep := kdtree.NewNKeeper(k)
	f.tree.NearestSet(keep, flatNode{pos: q, id: -1})

	out := make([]Neighbor, 0, keep.Heap.Len())
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		out = append(out, Neighbor{ID: c.Comparable.(flatNode).id, Dist: math.Sqrt(c.Dist)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dist != out[j].Dist {
			return out[i].Dist < out[j].Dist
		}
		return out[i].ID < out[j].ID
	})
	return out
}
