// Package world models the surveyed obstacle environment and answers the
// collision queries the lattice builder and path simplifier depend on.
//
// Obstacles are axis-aligned boxes whose half-extents have already been
// inflated by the safety margin. A World is immutable once constructed and
// safe for concurrent queries.
package world

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/geo"
	"github.com/aniti-robotics/flightplan/spatialindex"
)

// DefaultSegmentSpacing is the sampling interval, in meters, used for
// segment collision tests when the caller does not override it.
const DefaultSegmentSpacing = 1.0

// approxFootprints is how many horizontally nearest obstacle footprints the
// approximate strategy inspects per query.
const approxFootprints = 4

// Box is an axis-aligned obstacle: center position and half-extents, both in
// the local frame. Half is expected to be margin-inflated by the caller.
type Box struct {
	Center r3.Vec
	Half   r3.Vec
}

// Bounds is the axis-aligned extent of the surveyed volume.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// Strategy selects how point-collision queries are answered.
type Strategy int

const (
	// StrategyExact tests the point against every obstacle box. Always
	// correct; O(n) per query.
	StrategyExact Strategy = iota
	// StrategyBatched is the same test over packed coordinate columns in a
	// single pass. Same answers as StrategyExact, better constant factor on
	// large obstacle sets.
	StrategyBatched
	// StrategyApprox tests only the four horizontally nearest obstacle
	// footprints, and only against each obstacle's top height rather than
	// its full vertical extent. It is an approximation: a true collider
	// beyond the four nearest footprints is missed, and a point below a
	// floating obstacle can be misreported. Opt-in fast path only; never
	// equivalent to the exact strategies.
	StrategyApprox
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyBatched:
		return "batched"
	case StrategyApprox:
		return "approximate-indexed"
	default:
		return "unknown"
	}
}

// World is an immutable obstacle set with its volume bounds and the geodetic
// home reference the local frame is anchored at.
type World struct {
	boxes  []Box
	bounds Bounds
	home   geo.Point

	strategy Strategy

	// Packed columns for the batched strategy.
	cx, cy, cz []float64
	hx, hy, hz []float64

	// Ground footprint index and obstacle tops for the approximate strategy.
	foot *spatialindex.Flat
	top  []float64
}

// Option configures a World.
type Option func(*World)

// WithStrategy selects the point-collision strategy. The default is
// StrategyExact.
func WithStrategy(s Strategy) Option {
	return func(w *World) { w.strategy = s }
}

// New builds a World from margin-inflated obstacle boxes.
func New(boxes []Box, bounds Bounds, home geo.Point, opts ...Option) *World {
	w := &World{
		boxes:    boxes,
		bounds:   bounds,
		home:     home,
		strategy: StrategyExact,
	}
	for _, opt := range opts {
		opt(w)
	}

	n := len(boxes)
	w.cx = make([]float64, n)
	w.cy = make([]float64, n)
	w.cz = make([]float64, n)
	w.hx = make([]float64, n)
	w.hy = make([]float64, n)
	w.hz = make([]float64, n)
	w.top = make([]float64, n)
	feet := make([]spatialindex.XY, n)
	for i, b := range boxes {
		w.cx[i], w.cy[i], w.cz[i] = b.Center.X, b.Center.Y, b.Center.Z
		w.hx[i], w.hy[i], w.hz[i] = b.Half.X, b.Half.Y, b.Half.Z
		w.top[i] = b.Center.Z + b.Half.Z
		feet[i] = spatialindex.XY{X: b.Center.X, Y: b.Center.Y}
	}
	w.foot = spatialindex.NewFlat(feet)
	return w
}

// NumObstacles returns the number of obstacle boxes.
func (w *World) NumObstacles() int { return len(w.boxes) }

// Bounds returns the surveyed volume extent.
func (w *World) Bounds() Bounds { return w.bounds }

// Home returns the geodetic anchor of the local frame.
func (w *World) Home() geo.Point { return w.home }

// Strategy returns the configured point-collision strategy.
func (w *World) Strategy() Strategy { return w.strategy }

// Inside reports whether p lies within the surveyed volume bounds.
func (w *World) Inside(p r3.Vec) bool {
	if p.X < w.bounds.XMin || p.X > w.bounds.XMax {
		return false
	}
	if p.Y < w.bounds.YMin || p.Y > w.bounds.YMax {
		return false
	}
	if p.Z < w.bounds.ZMin || p.Z > w.bounds.ZMax {
		return false
	}
	return true
}

// PointInCollision reports whether p lies inside any obstacle box, using the
// configured strategy. Obstacle faces count as collisions.
func (w *World) PointInCollision(p r3.Vec) bool {
	switch w.strategy {
	case StrategyBatched:
		return w.pointBatched(p)
	case StrategyApprox:
		return w.pointApprox(p)
	default:
		return w.pointExact(p)
	}
}

func (w *World) pointExact(p r3.Vec) bool {
	for _, b := range w.boxes {
		if math.Abs(p.X-b.Center.X) <= b.Half.X &&
			math.Abs(p.Y-b.Center.Y) <= b.Half.Y &&
			math.Abs(p.Z-b.Center.Z) <= b.Half.Z {
			return true
		}
	}
	return false
}

func (w *World) pointBatched(p r3.Vec) bool {
	for i := range w.cx {
		if math.Abs(p.X-w.cx[i]) <= w.hx[i] &&
			math.Abs(p.Y-w.cy[i]) <= w.hy[i] &&
			math.Abs(p.Z-w.cz[i]) <= w.hz[i] {
			return true
		}
	}
	return false
}

// pointApprox checks the k nearest ground footprints only, comparing the
// point's height against each obstacle's top. See StrategyApprox for the
// correctness caveats.
func (w *World) pointApprox(p r3.Vec) bool {
	for _, n := range w.foot.KNearest(spatialindex.XY{X: p.X, Y: p.Y}, approxFootprints) {
		i := n.ID
		if w.top[i] >= p.Z &&
			math.Abs(p.X-w.cx[i]) <= w.hx[i] &&
			math.Abs(p.Y-w.cy[i]) <= w.hy[i] {
			return true
		}
	}
	return false
}

// SegmentInCollision samples the straight segment from a to b at the given
// spacing and reports whether any sample collides. Samples sit at i*spacing
// from a along the segment for i in [0, floor(dist/spacing)], so b itself is
// only sampled when the distance divides evenly; callers that need b checked
// test it as a point. A zero-length segment degenerates to a point test.
func (w *World) SegmentInCollision(a, b r3.Vec, spacing float64) bool {
	if spacing <= 0 {
		spacing = DefaultSegmentSpacing
	}
	delta := r3.Sub(b, a)
	dist := r3.Norm(delta)
	if dist == 0 {
		return w.PointInCollision(a)
	}
	unit := r3.Scale(1/dist, delta)
	steps := int(dist / spacing)
	for i := 0; i <= steps; i++ {
		p := r3.Add(a, r3.Scale(float64(i)*spacing, unit))
		if w.PointInCollision(p) {
			return true
		}
	}
	return false
}
