package lattice

import (
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/geo"
	"github.com/aniti-robotics/flightplan/navgraph"
	"github.com/aniti-robotics/flightplan/spatialindex"
	"github.com/aniti-robotics/flightplan/world"
)

// ErrDegenerateVolume reports that every candidate grid point in the
// requested volume was in collision, leaving nothing to plan over.
var ErrDegenerateVolume = errors.New("lattice: volume contains no free nodes")

// radiusSlack inflates the neighbor query radius to absorb floating-point
// drift in the enumerated grid coordinates. It is orders of magnitude below
// the gap to the next-farther neighbor class, so it never admits one.
const radiusSlack = 1e-9

// Oracle answers the collision queries the builder needs. *world.World
// satisfies it. The oracle's home reference must be the anchor the volume's
// local coordinates were produced with; the builder cannot detect a
// mismatch.
type Oracle interface {
	PointInCollision(p r3.Vec) bool
	SegmentInCollision(a, b r3.Vec, spacing float64) bool
	Home() geo.Point
}

// BuildParams describes the volume to discretize.
type BuildParams struct {
	// Center and Half define the box [Center-Half, Center+Half] in the
	// local frame.
	Center r3.Vec
	Half   r3.Vec
	// Resolution is the grid step in meters. Must be > 0.
	Resolution float64
	// Connectivity selects Full (default) or Partial neighbor linking.
	Connectivity Connectivity
	// SegmentSpacing is the edge collision sampling interval;
	// world.DefaultSegmentSpacing when zero.
	SegmentSpacing float64
	// Workers sets the width of the edge-building worker pool;
	// runtime.GOMAXPROCS(0) when zero. The result does not depend on it.
	Workers int
	// Quiet suppresses the build summary log line.
	Quiet bool
}

// Build enumerates the grid over the requested volume, drops points the
// oracle reports in collision, and links the survivors.
//
// Node ids are assigned in enumeration order: x outer, y middle, z inner.
// The enumerated range runs one step past the upper bound so the bound
// itself is reachable; when the span is not a multiple of the resolution
// this adds a final partial row just outside it.
//
// Every node recomputes its own arcs independently; nothing is mirrored
// from the reverse direction. With a deterministic oracle both directions
// agree, and identical inputs always produce identical graphs.
func Build(o Oracle, p BuildParams) (*Graph, error) {
	if p.Resolution <= 0 {
		return nil, fmt.Errorf("lattice: resolution must be positive, got %v", p.Resolution)
	}
	spacing := p.SegmentSpacing
	if spacing == 0 {
		spacing = world.DefaultSegmentSpacing
	}

	lo := r3.Sub(p.Center, p.Half)
	hi := r3.Add(p.Center, p.Half)
	xs := axisSteps(lo.X, hi.X, p.Resolution)
	ys := axisSteps(lo.Y, hi.Y, p.Resolution)
	zs := axisSteps(lo.Z, hi.Z, p.Resolution)

	var coords []r3.Vec
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				v := r3.Vec{X: x, Y: y, Z: z}
				if !o.PointInCollision(v) {
					coords = append(coords, v)
				}
			}
		}
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: center=%v half=%v resolution=%v",
			ErrDegenerateVolume, p.Center, p.Half, p.Resolution)
	}

	index := spatialindex.New(coords)

	radius := p.Resolution
	if p.Connectivity == Full {
		radius = p.Resolution * math.Sqrt2
	}
	radius *= 1 + radiusSlack

	adj := make([][]navgraph.Arc, len(coords))
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(coords) {
		workers = len(coords)
	}

	// Each worker owns a disjoint contiguous id range and writes only its
	// own adj slots, so no merge step or locking is needed; adjacency is
	// already ordered by node id.
	chunk := (len(coords) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		beg := w * chunk
		end := beg + chunk
		if end > len(coords) {
			end = len(coords)
		}
		if beg >= end {
			continue
		}
		wg.Add(1)
		go func(beg, end int) {
			defer wg.Done()
			for i := beg; i < end; i++ {
				adj[i] = linkNode(o, index, coords, i, radius, spacing)
			}
		}(beg, end)
	}
	wg.Wait()

	edges := 0
	for _, arcs := range adj {
		edges += len(arcs)
	}

	g := &Graph{
		coords: coords,
		adj:    adj,
		index:  index,
		home:   o.Home(),
		res:    p.Resolution,
		conn:   p.Connectivity,
		edges:  edges,
	}
	if !p.Quiet {
		log.Printf("lattice: built %d nodes, %d arcs (%s connectivity, resolution %.2fm)",
			g.NumNodes(), g.NumEdges(), p.Connectivity, p.Resolution)
	}
	return g, nil
}

// linkNode computes node i's outgoing arcs: every other node within the
// query radius whose connecting segment is collision-free at the configured
// spacing. Results come back sorted by id from the index.
func linkNode(o Oracle, index *spatialindex.Index, coords []r3.Vec, i int, radius, spacing float64) []navgraph.Arc {
	neighbors := index.Within(coords[i], radius)
	if len(neighbors) <= 1 {
		return nil
	}
	arcs := make([]navgraph.Arc, 0, len(neighbors)-1)
	for _, nb := range neighbors {
		if nb.ID == i {
			continue
		}
		if o.SegmentInCollision(coords[i], coords[nb.ID], spacing) {
			continue
		}
		arcs = append(arcs, navgraph.Arc{
			To:     nb.ID,
			Weight: r3.Norm(r3.Sub(coords[nb.ID], coords[i])),
		})
	}
	if len(arcs) == 0 {
		return nil
	}
	return arcs
}

// axisSteps enumerates lo, lo+step, ... up to one step past hi, mirroring
// half-open arange(lo, hi+step, step) semantics. The epsilon keeps an exact
// multiple from gaining a phantom final value.
func axisSteps(lo, hi, step float64) []float64 {
	n := int(math.Ceil((hi+step-lo)/step - 1e-9))
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	for k := range out {
		out[k] = lo + float64(k)*step
	}
	return out
}
