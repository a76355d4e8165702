package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/atharv3903/itsroute/internal/api"
	"github.com/atharv3903/itsroute/internal/config"
	"github.com/atharv3903/itsroute/internal/db"
	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/graphdb"
	"github.com/atharv3903/itsroute/internal/logging"
	"github.com/atharv3903/itsroute/internal/session"
)

func main() {
	cfg := config.FromFlagsServer()
	log := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, err := loadGraph(ctx, cfg)
	if err != nil {
		log.Error("load road network", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	log.Info("road network loaded", "source", cfg.Source, "nodes", g.Len(), "edges", len(g.Edges()))

	sessions := session.NewStore()
	go sessions.RunSweeper(ctx, time.Minute, cfg.SessionIdle, func(n int) {
		log.Debug("expired idle sessions", "count", n)
	})

	srv := api.New(g, sessions, log, api.Options{
		RouteCacheSize: cfg.RouteCacheSize,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("ITSROUTE listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// loadGraph builds the network once at startup. Any construction error is
// fatal: a server with a broken dataset must not start.
func loadGraph(ctx context.Context, cfg config.ServerConfig) (*graph.Graph, error) {
	switch cfg.Source {
	case config.SourceMySQL:
		conn, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return db.Store{DB: conn}.LoadGraph(ctx)

	case config.SourceNeo4j:
		client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
			URI:      cfg.Neo4j.URI,
			Database: cfg.Neo4j.Database,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			return nil, err
		}
		defer client.Close(context.Background())
		return graphdb.Loader{Client: client}.LoadGraph(ctx)

	default:
		return graph.Canonical(), nil
	}
}
