package planner

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aniti-robotics/flightplan/world"
)

// line returns n unit-spaced waypoints along x and an at func over them.
func line(n int) ([]int, func(int) r3.Vec) {
	path := make([]int, n)
	coords := make([]r3.Vec, n)
	for i := range path {
		path[i] = i
		coords[i] = r3.Vec{X: float64(i)}
	}
	return path, func(i int) r3.Vec { return coords[i] }
}

func assertSubsequence(t *testing.T, orig, got []int) {
	t.Helper()
	if len(got) == 0 || len(got) > len(orig) {
		t.Fatalf("result %v is not a shrinking of %v", got, orig)
	}
	if got[0] != orig[0] || got[len(got)-1] != orig[len(orig)-1] {
		t.Fatalf("result %v lost an endpoint of %v", got, orig)
	}
	j := 0
	for _, v := range got {
		for j < len(orig) && orig[j] != v {
			j++
		}
		if j == len(orig) {
			t.Fatalf("result %v is not an in-order subsequence of %v", got, orig)
		}
		j++
	}
}

func TestShortcut_StraightCorridorCollapses(t *testing.T) {
	w := world.New(nil, openBounds, testHome)
	path, at := line(10)

	got := Shortcut(w, path, at, world.DefaultSegmentSpacing)
	if len(got) != 2 {
		t.Fatalf("Shortcut = %v, want just the two endpoints", got)
	}
	if got[0] != 0 || got[1] != 9 {
		t.Errorf("Shortcut = %v, want [0 9]", got)
	}
}

func TestShortcut_ShortInputsUnchanged(t *testing.T) {
	w := world.New(nil, openBounds, testHome)
	_, at := line(3)
	tests := [][]int{{0}, {0, 1}, {0, 2}}
	for _, path := range tests {
		got := Shortcut(w, path, at, world.DefaultSegmentSpacing)
		if len(got) != len(path) {
			t.Errorf("Shortcut(%v) = %v, want unchanged", path, got)
		}
		for i := range path {
			if got[i] != path[i] {
				t.Errorf("Shortcut(%v) = %v, want unchanged", path, got)
			}
		}
	}
}

func TestShortcut_KeepsCornerAroundObstacle(t *testing.T) {
	// An L-shaped route around a block sitting in the inside corner. The
	// straight start-goal segment collides, so the corner must survive.
	block := world.New([]world.Box{{
		Center: r3.Vec{X: 5, Y: 5, Z: 0},
		Half:   r3.Vec{X: 3, Y: 3, Z: 3},
	}}, openBounds, testHome)

	coords := []r3.Vec{
		{X: 0, Y: 0},
		{X: 5, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 5},
		{X: 10, Y: 10},
	}
	path := []int{0, 1, 2, 3, 4}
	at := func(i int) r3.Vec { return coords[i] }

	got := Shortcut(block, path, at, 0.5)
	assertSubsequence(t, path, got)
	for k := 0; k+1 < len(got); k++ {
		if block.SegmentInCollision(at(got[k]), at(got[k+1]), 0.5) {
			t.Errorf("kept segment %d->%d collides", got[k], got[k+1])
		}
	}
	if len(got) >= len(path) {
		t.Errorf("Shortcut = %v, want at least the straight legs collapsed", got)
	}
	// The direct diagonal is blocked, so more than the endpoints remain.
	if len(got) == 2 {
		t.Errorf("Shortcut = %v, but the straight segment 0->4 is blocked", got)
	}
}

func TestShortcut_NoShortcutPossible(t *testing.T) {
	// A tight zig-zag between two walls: every skip-a-waypoint segment
	// collides, so the path must come back unchanged.
	walls := world.New([]world.Box{
		{Center: r3.Vec{X: 2, Y: 1.2, Z: 0}, Half: r3.Vec{X: 0.4, Y: 1.7, Z: 5}},
		{Center: r3.Vec{X: 4, Y: -1.2, Z: 0}, Half: r3.Vec{X: 0.4, Y: 1.7, Z: 5}},
		{Center: r3.Vec{X: 6, Y: 1.2, Z: 0}, Half: r3.Vec{X: 0.4, Y: 1.7, Z: 5}},
	}, openBounds, testHome)

	coords := []r3.Vec{
		{X: 0, Y: 0},
		{X: 2, Y: -2},
		{X: 4, Y: 2},
		{X: 6, Y: -2},
		{X: 8, Y: 0},
	}
	path := []int{0, 1, 2, 3, 4}
	at := func(i int) r3.Vec { return coords[i] }

	// Sanity: the walk itself must be feasible at the test spacing.
	for k := 0; k+1 < len(path); k++ {
		if walls.SegmentInCollision(at(path[k]), at(path[k+1]), 0.1) {
			t.Fatalf("fixture broken: leg %d->%d collides", path[k], path[k+1])
		}
	}

	got := Shortcut(walls, path, at, 0.1)
	assertSubsequence(t, path, got)
	if len(got) != len(path) {
		t.Errorf("Shortcut = %v, want the original %v (fully concave)", got, path)
	}
}

func TestShortcut_PartialCollapse(t *testing.T) {
	// Free space after the wall: the tail should collapse while the detour
	// corner survives.
	wall := world.New([]world.Box{{
		Center: r3.Vec{X: 3, Y: 0, Z: 0},
		Half:   r3.Vec{X: 0.5, Y: 2, Z: 5},
	}}, openBounds, testHome)

	coords := []r3.Vec{
		{X: 0, Y: 0},
		{X: 1.5, Y: 3},
		{X: 3, Y: 4},
		{X: 4.5, Y: 3},
		{X: 6, Y: 0},
		{X: 8, Y: 0},
		{X: 10, Y: 0},
	}
	path := []int{0, 1, 2, 3, 4, 5, 6}
	at := func(i int) r3.Vec { return coords[i] }

	got := Shortcut(wall, path, at, 0.1)
	assertSubsequence(t, path, got)
	if len(got) >= len(path) {
		t.Errorf("Shortcut = %v, want the collinear tail collapsed", got)
	}
	for k := 0; k+1 < len(got); k++ {
		if wall.SegmentInCollision(at(got[k]), at(got[k+1]), 0.1) {
			t.Errorf("kept segment %d->%d collides", got[k], got[k+1])
		}
	}
}
