package algo_test

import (
	"math"
	"testing"

	oracle "github.com/RyanCarrier/dijkstra"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/atharv3903/itsroute/internal/algo"
	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
)

// DijkstraSuite runs the path finder against the canonical network.
type DijkstraSuite struct {
	suite.Suite
	g *graph.Graph
}

func (s *DijkstraSuite) SetupTest() {
	s.g = graph.Canonical()
}

// TestAToD checks the unique minimum A→B→D.
func (s *DijkstraSuite) TestAToD() {
	r, err := algo.Dijkstra(s.g, "A", "D")
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"A", "B", "D"}, r.Path)
	require.InDelta(s.T(), 1.8, r.Distance, 1e-9)
	require.Equal(s.T(), "A", r.Start)
	require.Equal(s.T(), "D", r.End)
	require.Positive(s.T(), r.Explored)
}

// TestAToF checks the unique minimum A→C→F.
func (s *DijkstraSuite) TestAToF() {
	r, err := algo.Dijkstra(s.g, "A", "F")
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"A", "C", "F"}, r.Path)
	require.InDelta(s.T(), 1.8, r.Distance, 1e-9)
}

// TestSameNode returns the trivial route.
func (s *DijkstraSuite) TestSameNode() {
	r, err := algo.Dijkstra(s.g, "C", "C")
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"C"}, r.Path)
	require.Zero(s.T(), r.Distance)
}

// TestUnknownNodes rejects ids not in the graph.
func (s *DijkstraSuite) TestUnknownNodes() {
	_, err := algo.Dijkstra(s.g, "Z", "A")
	require.ErrorIs(s.T(), err, graph.ErrUnknownNode)

	_, err = algo.Dijkstra(s.g, "A", "Z")
	require.ErrorIs(s.T(), err, graph.ErrUnknownNode)

	_, err = algo.Dijkstra(s.g, "Z", "Z")
	require.ErrorIs(s.T(), err, graph.ErrUnknownNode)
}

// TestAllPairsAreValidAndMinimal checks every ordered pair against brute force.
func (s *DijkstraSuite) TestAllPairsAreValidAndMinimal() {
	nodes := s.g.Nodes()
	for _, a := range nodes {
		for _, b := range nodes {
			if a.ID == b.ID {
				continue
			}
			r, err := algo.Dijkstra(s.g, a.ID, b.ID)
			require.NoError(s.T(), err, "%s→%s", a.ID, b.ID)

			require.Equal(s.T(), a.ID, r.Path[0])
			require.Equal(s.T(), b.ID, r.Path[len(r.Path)-1])
			require.InDelta(s.T(), pathWeight(s.T(), s.g, r.Path), r.Distance, 1e-9)
			require.InDelta(s.T(), bruteForce(s.g, a.ID, b.ID), r.Distance, 1e-9, "%s→%s", a.ID, b.ID)
		}
	}
}

// TestAgreesWithOracle compares totals with an independent implementation.
// Weights are scaled to integer decimeters.
func (s *DijkstraSuite) TestAgreesWithOracle() {
	o := oracle.NewGraph()
	for i := 0; i < s.g.Len(); i++ {
		o.AddVertex(i)
	}
	for _, e := range s.g.Edges() {
		u, _ := s.g.Index(e.U)
		v, _ := s.g.Index(e.V)
		w := int64(math.Round(e.Distance * 10))
		require.NoError(s.T(), o.AddArc(u, v, w))
		require.NoError(s.T(), o.AddArc(v, u, w))
	}

	for _, a := range s.g.Nodes() {
		for _, b := range s.g.Nodes() {
			if a.ID == b.ID {
				continue
			}
			ai, _ := s.g.Index(a.ID)
			bi, _ := s.g.Index(b.ID)
			best, err := o.Shortest(ai, bi)
			require.NoError(s.T(), err)

			r, err := algo.Dijkstra(s.g, a.ID, b.ID)
			require.NoError(s.T(), err)
			require.Equal(s.T(), best.Distance, int64(math.Round(r.Distance*10)), "%s→%s", a.ID, b.ID)
		}
	}
}

// TestIdempotent repeats the same query.
func (s *DijkstraSuite) TestIdempotent() {
	first, err := algo.Dijkstra(s.g, "C", "E")
	require.NoError(s.T(), err)
	for i := 0; i < 5; i++ {
		again, err := algo.Dijkstra(s.g, "C", "E")
		require.NoError(s.T(), err)
		require.Equal(s.T(), first, again)
	}
}

func TestDijkstraSuite(t *testing.T) {
	suite.Run(t, new(DijkstraSuite))
}

func TestDijkstraNoPath(t *testing.T) {
	g, err := graph.Build(
		[]model.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		[]model.Edge{{U: "A", V: "B", Distance: 1}, {U: "C", V: "D", Distance: 1}},
	)
	require.NoError(t, err)

	_, err = algo.Dijkstra(g, "A", "D")
	require.ErrorIs(t, err, algo.ErrNoPath)

	r, err := algo.Dijkstra(g, "D", "C")
	require.NoError(t, err)
	require.Equal(t, []string{"D", "C"}, r.Path)
}

func TestDijkstraIsolatedNode(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode("A", "", 0, 0))
	require.NoError(t, g.AddNode("B", "", 0, 0))

	_, err := algo.Dijkstra(g, "A", "B")
	require.ErrorIs(t, err, algo.ErrNoPath)
}

func TestDijkstraPrefersMoreHopsWhenCheaper(t *testing.T) {
	g, err := graph.Build(
		[]model.Node{{ID: "S"}, {ID: "M1"}, {ID: "M2"}, {ID: "T"}},
		[]model.Edge{
			{U: "S", V: "T", Distance: 10},
			{U: "S", V: "M1", Distance: 1},
			{U: "M1", V: "M2", Distance: 1},
			{U: "M2", V: "T", Distance: 1},
		},
	)
	require.NoError(t, err)

	r, err := algo.Dijkstra(g, "T", "S")
	require.NoError(t, err)
	require.Equal(t, []string{"T", "M2", "M1", "S"}, r.Path)
	require.InDelta(t, 3.0, r.Distance, 1e-9)
}

func TestDijkstraZeroWeightEdge(t *testing.T) {
	g, err := graph.Build(
		[]model.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]model.Edge{{U: "A", V: "B", Distance: 0}, {U: "B", V: "C", Distance: 2}, {U: "A", V: "C", Distance: 3}},
	)
	require.NoError(t, err)

	r, err := algo.Dijkstra(g, "A", "C")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, r.Path)
	require.InDelta(t, 2.0, r.Distance, 1e-9)
}

func pathWeight(t *testing.T, g *graph.Graph, path []string) float64 {
	t.Helper()
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		d, ok := g.Distance(path[i], path[i+1])
		require.True(t, ok, "no edge %s-%s", path[i], path[i+1])
		total += d
	}
	return total
}

// bruteForce enumerates every simple path from src to dst.
func bruteForce(g *graph.Graph, src, dst string) float64 {
	best := math.Inf(1)
	seen := map[string]bool{src: true}

	var walk func(u string, acc float64)
	walk = func(u string, acc float64) {
		if u == dst {
			best = math.Min(best, acc)
			return
		}
		nb, _ := g.Neighbors(u)
		for _, n := range nb {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			walk(n.ID, acc+n.Distance)
			seen[n.ID] = false
		}
	}
	walk(src, 0)
	return best
}
