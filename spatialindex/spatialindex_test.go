package spatialindex

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIndex_Empty(t *testing.T) {
	ix := New(nil)
	if ix.Len() != 0 {
		t.Fatalf("Len = %d, want 0", ix.Len())
	}
	if _, _, ok := ix.Nearest(r3.Vec{}); ok {
		t.Error("Nearest on empty index should report ok=false")
	}
	if got := ix.Within(r3.Vec{}, 10); got != nil {
		t.Errorf("Within on empty index = %v, want nil", got)
	}
}

func TestIndex_Nearest(t *testing.T) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 0, Y: 10, Z: 0},
		{X: 0, Y: 0, Z: 10},
		{X: 5, Y: 5, Z: 5},
	}
	ix := New(points)

	tests := []struct {
		name     string
		q        r3.Vec
		wantID   int
		wantDist float64
	}{
		{"exact hit", r3.Vec{X: 10, Y: 0, Z: 0}, 1, 0},
		{"near origin", r3.Vec{X: 1, Y: -1, Z: 0.5}, 0, math.Sqrt(2.25)},
		{"center", r3.Vec{X: 6, Y: 6, Z: 6}, 4, math.Sqrt(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, dist, ok := ix.Nearest(tt.q)
			if !ok {
				t.Fatal("Nearest reported ok=false")
			}
			if id != tt.wantID {
				t.Errorf("id = %d, want %d", id, tt.wantID)
			}
			if math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("dist = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestIndex_Within(t *testing.T) {
	// A 3x1x1 row of unit-spaced points.
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
	}
	ix := New(points)

	got := ix.Within(r3.Vec{X: 1, Y: 0, Z: 0}, 1.0)
	wantIDs := []int{0, 1, 2}
	if len(got) != len(wantIDs) {
		t.Fatalf("Within returned %d neighbors (%v), want %d", len(got), got, len(wantIDs))
	}
	for i, n := range got {
		if n.ID != wantIDs[i] {
			t.Errorf("neighbor %d id = %d, want %d (results must be sorted by id)", i, n.ID, wantIDs[i])
		}
	}
	if got[1].Dist != 0 {
		t.Errorf("self hit should have distance 0, got %v", got[1].Dist)
	}

	if far := ix.Within(r3.Vec{X: -100, Y: 0, Z: 0}, 1.0); len(far) != 0 {
		t.Errorf("distant query returned %v, want none", far)
	}
}

func TestFlat_KNearest(t *testing.T) {
	points := []XY{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 0, Y: 3},
		{X: 50, Y: 50},
	}
	f := NewFlat(points)

	got := f.KNearest(XY{X: 0.1, Y: 0.1}, 4)
	if len(got) != 4 {
		t.Fatalf("KNearest returned %d results, want 4", len(got))
	}
	if got[0].ID != 0 {
		t.Errorf("closest id = %d, want 0", got[0].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Dist < got[i-1].Dist {
			t.Errorf("results not ordered by distance: %v", got)
		}
	}
	for _, n := range got {
		if n.ID == 4 {
			t.Errorf("far point should not be among the 4 nearest: %v", got)
		}
	}
}

func TestFlat_KLargerThanSet(t *testing.T) {
	f := NewFlat([]XY{{X: 0, Y: 0}, {X: 1, Y: 1}})
	got := f.KNearest(XY{}, 4)
	if len(got) != 2 {
		t.Errorf("KNearest(k=4) over 2 points returned %d results, want 2", len(got))
	}
}
