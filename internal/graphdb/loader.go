package graphdb

import (
	"context"
	"fmt"

	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
)

const (
	cypherNodes = `
MATCH (n:Junction)
RETURN n.id AS id, n.name AS name, n.lat AS lat, n.lon AS lon
ORDER BY n.seq`

	cypherEdges = `
MATCH (a:Junction)-[r:ROAD]->(b:Junction)
RETURN a.id AS u, b.id AS v, r.distance_km AS distance
ORDER BY r.seq`

	cypherClear = `MATCH (n:Junction) DETACH DELETE n`

	cypherCreateNodes = `
UNWIND $nodes AS n
CREATE (:Junction {id: n.id, name: n.name, lat: n.lat, lon: n.lon, seq: n.seq})`

	// Roads are stored once with an arbitrary direction; the graph model
	// makes them undirected on load.
	cypherCreateEdges = `
UNWIND $edges AS e
MATCH (a:Junction {id: e.u}), (b:Junction {id: e.v})
CREATE (a)-[:ROAD {distance_km: e.distance, seq: e.seq}]->(b)`
)

type Loader struct {
	Client Client
}

func (l Loader) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	if err := l.Client.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	nodeRes, err := l.Client.ExecuteRead(ctx, cypherNodes, nil)
	if err != nil {
		return nil, fmt.Errorf("load junctions: %w", err)
	}
	edgeRes, err := l.Client.ExecuteRead(ctx, cypherEdges, nil)
	if err != nil {
		return nil, fmt.Errorf("load roads: %w", err)
	}

	nodes := make([]model.Node, 0, len(nodeRes.Records))
	for _, rec := range nodeRes.Records {
		lat, err := toFloat(rec["lat"])
		if err != nil {
			return nil, fmt.Errorf("junction %v lat: %w", rec["id"], err)
		}
		lon, err := toFloat(rec["lon"])
		if err != nil {
			return nil, fmt.Errorf("junction %v lon: %w", rec["id"], err)
		}
		nodes = append(nodes, model.Node{
			ID:   toString(rec["id"]),
			Name: toString(rec["name"]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	edges := make([]model.Edge, 0, len(edgeRes.Records))
	for _, rec := range edgeRes.Records {
		d, err := toFloat(rec["distance"])
		if err != nil {
			return nil, fmt.Errorf("road %v-%v distance: %w", rec["u"], rec["v"], err)
		}
		edges = append(edges, model.Edge{U: toString(rec["u"]), V: toString(rec["v"]), Distance: d})
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("load junctions: %w", graph.ErrEmptyGraph)
	}
	return graph.Build(nodes, edges)
}

// Seed replaces all junctions and roads with the given network in a single
// transaction, so a failed seed leaves the previous network in place.
func (l Loader) Seed(ctx context.Context, nodes []model.Node, edges []model.Edge) error {
	if err := l.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	nodeParams := make([]map[string]any, 0, len(nodes))
	for i, n := range nodes {
		nodeParams = append(nodeParams, map[string]any{
			"id": n.ID, "name": n.Name, "lat": n.Lat, "lon": n.Lon, "seq": i,
		})
	}
	edgeParams := make([]map[string]any, 0, len(edges))
	for i, e := range edges {
		edgeParams = append(edgeParams, map[string]any{
			"u": e.U, "v": e.V, "distance": e.Distance, "seq": i,
		})
	}

	err := l.Client.ExecuteWriteTx(ctx, []Statement{
		{Cypher: cypherClear},
		{Cypher: cypherCreateNodes, Params: map[string]any{"nodes": nodeParams}},
		{Cypher: cypherCreateEdges, Params: map[string]any{"edges": edgeParams}},
	})
	if err != nil {
		return fmt.Errorf("seed road network: %w", err)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected numeric value %T", v)
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
