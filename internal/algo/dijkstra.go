package algo

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/yourbasic/bit"

	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
)

// ErrNoPath is returned when the destination cannot be reached from the origin.
var ErrNoPath = errors.New("algo: no path between nodes")

// Network is the read-only view of a road network the path finder needs.
type Network interface {
	Neighbors(id string) ([]model.Neighbor, error)
	Index(id string) (int, bool)
	Len() int
	HasNode(id string) bool
}

type pqItem struct {
	node string
	dist float64
}

type pq []pqItem

func (p pq) Len() int           { return len(p) }
func (p pq) Less(i, j int) bool { return p[i].dist < p[j].dist }
func (p pq) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func (p *pq) Push(x any) {
	*p = append(*p, x.(pqItem))
}

func (p *pq) Pop() any {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

type hop struct {
	from   string
	weight float64
}

// Dijkstra returns a minimum-distance route from src to dst. Among equal-cost
// routes the one returned is unspecified.
func Dijkstra(g Network, src, dst string) (model.Route, error) {
	if !g.HasNode(src) {
		return model.Route{}, fmt.Errorf("%w: %q", graph.ErrUnknownNode, src)
	}
	if !g.HasNode(dst) {
		return model.Route{}, fmt.Errorf("%w: %q", graph.ErrUnknownNode, dst)
	}
	if src == dst {
		return model.Route{Start: src, End: dst, Path: []string{src}}, nil
	}

	dist := map[string]float64{src: 0}
	prev := map[string]hop{}
	visited := bit.New()
	pq := &pq{}
	heap.Push(pq, pqItem{node: src, dist: 0})
	explored := 0
	reached := false

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		u := cur.node

		ui, _ := g.Index(u)
		if visited.Contains(ui) {
			continue // stale entry
		}
		visited.Add(ui)
		explored++

		if u == dst {
			reached = true
			break
		}

		neighbors, err := g.Neighbors(u)
		if err != nil {
			return model.Route{}, err
		}

		for _, e := range neighbors {
			if vi, ok := g.Index(e.ID); ok && visited.Contains(vi) {
				continue
			}
			nd := dist[u] + e.Distance

			old, found := dist[e.ID]
			if !found {
				old = math.Inf(1)
			}
			if nd < old {
				dist[e.ID] = nd
				prev[e.ID] = hop{from: u, weight: e.Distance}
				heap.Push(pq, pqItem{node: e.ID, dist: nd})
			}
		}
	}

	if !reached {
		return model.Route{Explored: explored}, fmt.Errorf("%w: %s to %s", ErrNoPath, src, dst)
	}

	// reconstruct
	path := []string{}
	weights := []float64{}
	cur := dst

	for cur != src {
		h := prev[cur]
		path = append(path, cur)
		weights = append(weights, h.weight)
		cur = h.from
	}
	path = append(path, src)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	// Sum in traversal order so the total only depends on the path.
	total := 0.0
	for i := len(weights) - 1; i >= 0; i-- {
		total += weights[i]
	}

	return model.Route{
		Start:    src,
		End:      dst,
		Path:     path,
		Distance: total,
		Explored: explored,
	}, nil
}
