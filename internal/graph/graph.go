// Package graph holds the road network: junctions with coordinates and
// undirected weighted road segments between them.
//
// A Graph is filled once at startup and only read afterwards, so it can be
// shared by every request without locking.
package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/atharv3903/itsroute/internal/model"
)

var (
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrUnknownNode   = errors.New("graph: unknown node")
	ErrInvalidWeight = errors.New("graph: invalid edge weight")
	ErrInvalidEdge   = errors.New("graph: invalid edge")
	ErrInvalidNode   = errors.New("graph: invalid node")
	ErrEmptyGraph    = errors.New("graph: network has no nodes")
)

type Graph struct {
	nodes map[string]model.Node
	index map[string]int
	order []string
	edges []model.Edge
	adj   map[string][]model.Neighbor
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]model.Node),
		index: make(map[string]int),
		adj:   make(map[string][]model.Neighbor),
	}
}

// Build constructs a graph from node and edge lists, stopping at the first
// invalid entry.
func Build(nodes []model.Node, edges []model.Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n.ID, n.Name, n.Lat, n.Lon); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.U, e.V, e.Distance); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) AddNode(id, name string, lat, lon float64) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidNode)
	}
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}

	g.nodes[id] = model.Node{ID: id, Name: name, Lat: lat, Lon: lon}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
	return nil
}

// AddEdge inserts an undirected edge. Nothing is modified when the call fails.
func (g *Graph) AddEdge(u, v string, weight float64) error {
	if _, ok := g.nodes[u]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, u)
	}
	if _, ok := g.nodes[v]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, v)
	}
	if u == v {
		return fmt.Errorf("%w: self-loop on %q", ErrInvalidEdge, u)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %s-%s has weight %v", ErrInvalidWeight, u, v, weight)
	}

	g.edges = append(g.edges, model.Edge{U: u, V: v, Distance: weight})
	g.adj[u] = append(g.adj[u], model.Neighbor{ID: v, Distance: weight})
	g.adj[v] = append(g.adj[v], model.Neighbor{ID: u, Distance: weight})
	return nil
}

// Neighbors returns the adjacent nodes of id in insertion order. The slice is
// a copy and may be modified by the caller.
func (g *Graph) Neighbors(id string) ([]model.Neighbor, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return append([]model.Neighbor(nil), g.adj[id]...), nil
}

func (g *Graph) Node(id string) (model.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Index returns the dense position of id in [0, Len()).
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Graph) Len() int { return len(g.order) }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []model.Node {
	out := make([]model.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []model.Edge {
	return append([]model.Edge(nil), g.edges...)
}

// Distance returns the weight of the lightest edge between u and v.
func (g *Graph) Distance(u, v string) (float64, bool) {
	best, found := 0.0, false
	for _, nb := range g.adj[u] {
		if nb.ID == v && (!found || nb.Distance < best) {
			best, found = nb.Distance, true
		}
	}
	return best, found
}
