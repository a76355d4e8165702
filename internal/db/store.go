package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
)

// Store reads and seeds the road network kept in MySQL.
type Store struct {
	DB *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
        node_id VARCHAR(64) NOT NULL PRIMARY KEY,
        name    VARCHAR(255) NOT NULL,
        lat     DOUBLE NOT NULL,
        lon     DOUBLE NOT NULL,
        seq     INT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS edges (
        edge_id     BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
        src_node    VARCHAR(64) NOT NULL,
        dst_node    VARCHAR(64) NOT NULL,
        distance_km DOUBLE NOT NULL,
        FOREIGN KEY (src_node) REFERENCES nodes(node_id),
        FOREIGN KEY (dst_node) REFERENCES nodes(node_id)
    )`,
}

func (s Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Seed replaces the stored network with nodes and edges in one transaction.
func (s Store) Seed(ctx context.Context, nodes []model.Node, edges []model.Edge) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	for i, n := range nodes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (node_id, name, lat, lon, seq) VALUES (?, ?, ?, ?, ?)`,
			n.ID, n.Name, n.Lat, n.Lon, i)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO edges (src_node, dst_node, distance_km) VALUES (?, ?, ?)`,
			e.U, e.V, e.Distance)
		if err != nil {
			return fmt.Errorf("insert edge %s-%s: %w", e.U, e.V, err)
		}
	}

	return tx.Commit()
}

func (s Store) Nodes(ctx context.Context) ([]model.Node, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT node_id, name, lat, lon
        FROM nodes
        ORDER BY seq
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]model.Node, 0, 8)
	for rows.Next() {
		var n model.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Lat, &n.Lon); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s Store) Edges(ctx context.Context) ([]model.Edge, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT src_node, dst_node, distance_km
        FROM edges
        ORDER BY edge_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]model.Edge, 0, 8)
	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.U, &e.V, &e.Distance); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// LoadGraph reads the whole network and validates it through graph.Build.
func (s Store) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	edges, err := s.Edges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("load nodes: %w", graph.ErrEmptyGraph)
	}
	return graph.Build(nodes, edges)
}
