package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/atharv3903/itsroute/internal/config"
	"github.com/atharv3903/itsroute/internal/db"
	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/graphdb"
)

// seed writes the demo road network into the configured store. It accepts the
// same flags and environment as the server.
func main() {
	cfg := config.FromFlagsServer()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nodes, edges := graph.CanonicalNodes(), graph.CanonicalEdges()

	switch cfg.Source {
	case config.SourceMySQL:
		conn, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		store := db.Store{DB: conn}
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		if err := store.Seed(ctx, nodes, edges); err != nil {
			log.Fatal(err)
		}

	case config.SourceNeo4j:
		client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
			URI:      cfg.Neo4j.URI,
			Database: cfg.Neo4j.Database,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close(context.Background())

		if err := (graphdb.Loader{Client: client}).Seed(ctx, nodes, edges); err != nil {
			log.Fatal(err)
		}

	default:
		log.Fatalf("nothing to seed for source %q; use -source mysql or -source neo4j", cfg.Source)
	}

	log.Printf("seeded %d nodes and %d edges into %s", len(nodes), len(edges), cfg.Source)
}
