package planner

import (
	"container/heap"
	"fmt"

	"github.com/aniti-robotics/flightplan/geo"
	"github.com/aniti-robotics/flightplan/navgraph"
)

// FindPath searches g for a minimum-cost route between two geodetic
// endpoints. The endpoints are converted into the graph's local frame via
// its home reference and snapped to their nearest free nodes; the caller is
// responsible for planning against a graph built with the same home the
// endpoints are expressed relative to.
//
// The returned path includes both snapped endpoints; when start and goal
// snap to the same node the path is that single node with cost 0. A search
// that exhausts the frontier returns ErrNoPath.
func FindPath(g navgraph.Graph, start, goal geo.Point, opts Options) (*Path, error) {
	if g.NumNodes() == 0 {
		return nil, ErrNoNodes
	}
	h := opts.Heuristic
	if h == nil {
		h = Euclidean
	}

	startIdx, err := snap(g, start, "start", opts.MaxSnapDistance)
	if err != nil {
		return nil, err
	}
	goalIdx, err := snap(g, goal, "goal", opts.MaxSnapDistance)
	if err != nil {
		return nil, err
	}

	type record struct {
		parent int
		g      float64
	}
	best := map[int]record{startIdx: {parent: -1, g: 0}}
	closed := make(map[int]struct{})

	pq := &frontier{{node: startIdx, f: h(g, startIdx, goalIdx)}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(entry)
		if _, done := closed[cur.node]; done {
			continue // stale duplicate from a later, cheaper discovery
		}
		closed[cur.node] = struct{}{}

		if cur.node == goalIdx {
			nodes := make([]int, 0, 16)
			for n := goalIdx; n != -1; n = best[n].parent {
				nodes = append(nodes, n)
			}
			for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
				nodes[i], nodes[j] = nodes[j], nodes[i]
			}
			return &Path{Nodes: nodes, Cost: best[goalIdx].g}, nil
		}

		for _, arc := range g.Neighbors(cur.node) {
			if _, done := closed[arc.To]; done {
				continue
			}
			tentative := best[cur.node].g + arc.Weight
			rec, seen := best[arc.To]
			if seen && tentative > rec.g {
				continue
			}
			best[arc.To] = record{parent: cur.node, g: tentative}
			heap.Push(pq, entry{node: arc.To, f: tentative + h(g, arc.To, goalIdx)})
		}
	}

	return nil, fmt.Errorf("%w: start node %d, goal node %d", ErrNoPath, startIdx, goalIdx)
}

// snap converts a geodetic endpoint into the graph frame and resolves it to
// the nearest free node, enforcing the optional snap-distance policy.
func snap(g navgraph.Graph, p geo.Point, which string, maxSnap float64) (int, error) {
	local, err := geo.ToLocal(p, g.Home())
	if err != nil {
		return 0, fmt.Errorf("planner: convert %s: %w", which, err)
	}
	idx, dist, ok := g.Nearest(local)
	if !ok {
		return 0, ErrNoNodes
	}
	if maxSnap > 0 && dist > maxSnap {
		return 0, fmt.Errorf("%w: %s snapped %.2fm away (limit %.2fm)", ErrSnapTooFar, which, dist, maxSnap)
	}
	return idx, nil
}

// entry is a frontier element: a node and the f = g + h key it was pushed
// with. Entries are never updated in place; cheaper rediscoveries push
// duplicates and stale ones are discarded on pop.
type entry struct {
	node int
	f    float64
}

// frontier is a binary min-heap on f, breaking ties toward the smaller node
// id so equal-cost searches expand in a fixed order.
type frontier []entry

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].node < q[j].node
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) { *q = append(*q, x.(entry)) }

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
