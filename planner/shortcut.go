package planner

import "gonum.org/v1/gonum/spatial/r3"

// Shortcut removes redundant waypoints from a node-id path by greedy
// string-pulling. at resolves a node id to its coordinate; tester checks
// candidate segments at the given sampling spacing.
//
// The scan keeps a far anchor and walks a near anchor up from the path
// start. The first near waypoint with a collision-free straight segment to
// the far anchor is kept and becomes the new far anchor; if none qualifies
// the far anchor steps back by one and is kept as well. Either way the near
// anchor restarts at the path start, and the interval between the anchors
// shrinks every round, so the scan terminates.
//
// The result is a strictly-increasing-index subsequence of path, in
// start-to-goal order, always retaining the first and last waypoints. A
// path with no usable shortcuts comes back unchanged (as a copy).
func Shortcut(tester SegmentTester, path []int, at func(int) r3.Vec, spacing float64) []int {
	if len(path) <= 2 {
		return append([]int(nil), path...)
	}

	far := len(path) - 1
	near := 0
	kept := []int{far} // positions into path, collected far-to-near

	for near < far {
		found := false
		for near < far {
			if tester.SegmentInCollision(at(path[near]), at(path[far]), spacing) {
				near++
				continue
			}
			kept = append(kept, near)
			found = true
			break
		}
		if found {
			far = kept[len(kept)-1]
		} else {
			far--
			kept = append(kept, far)
		}
		near = 0
	}

	out := make([]int, 0, len(kept))
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, path[kept[i]])
	}
	return out
}
