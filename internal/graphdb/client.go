// Package graphdb loads and seeds the road network in a Neo4j database.
package graphdb

import (
	"context"
	"errors"
)

// Client is the subset of a graph database session the loader needs.
type Client interface {
	// ExecuteWriteTx runs stmts in order inside one transaction. Either all
	// of them are committed or none.
	ExecuteWriteTx(ctx context.Context, stmts []Statement) error
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

type Statement struct {
	Cypher string
	Params map[string]any
}

type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

type Options struct {
	URI      string
	Database string
	Username string
	Password string
}

var ErrMissingURI = errors.New("graphdb: URI is required")
