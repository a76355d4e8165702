package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Graph sources the server can load the road network from.
const (
	SourceBuiltin = "builtin"
	SourceMySQL   = "mysql"
	SourceNeo4j   = "neo4j"
)

type ServerConfig struct {
	Addr            string
	Source          string
	MySQLDSN        string
	Neo4j           Neo4jConfig
	RouteCacheSize  int
	SessionIdle     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	Logging         LoggingConfig
}

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// FromFlagsServer loads .env if present and parses the process flags.
// Invalid settings are fatal.
func FromFlagsServer() ServerConfig {
	_ = godotenv.Load()

	cfg, err := FromArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// FromArgs parses args with environment variables as defaults.
func FromArgs(args []string) (ServerConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var cfg ServerConfig
	var origins string
	fs.StringVar(&cfg.Addr, "addr", envOr("HTTP_ADDR", ":8080"), "HTTP bind address")
	fs.StringVar(&cfg.Source, "source", envOr("GRAPH_SOURCE", SourceBuiltin), "graph source: builtin, mysql or neo4j")
	fs.StringVar(&cfg.MySQLDSN, "dsn", os.Getenv("DB_DSN"), "MySQL DSN")
	fs.StringVar(&cfg.Neo4j.URI, "neo4j-uri", os.Getenv("NEO4J_URI"), "Neo4j bolt URI")
	fs.StringVar(&cfg.Neo4j.Database, "neo4j-db", os.Getenv("NEO4J_DATABASE"), "Neo4j database name")
	fs.IntVar(&cfg.RouteCacheSize, "route-cache", envInt("ROUTE_CACHE_SIZE", 256), "route cache capacity")
	fs.DurationVar(&cfg.SessionIdle, "session-idle", envDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute), "drop sessions idle for longer than this")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", envDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "graceful shutdown timeout")
	fs.StringVar(&origins, "origins", os.Getenv("ALLOWED_ORIGINS"), "comma separated CORS origins")
	fs.StringVar(&cfg.Logging.Level, "log-level", envOr("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&cfg.Logging.Format, "log-format", envOr("LOG_FORMAT", "text"), "text or json")
	fs.BoolVar(&cfg.Logging.IncludeCaller, "log-caller", envBool("LOG_INCLUDE_CALLER", false), "add source file and line to log records")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.AllowedOrigins = splitCSV(origins)

	return cfg, cfg.Validate()
}

func (c ServerConfig) Validate() error {
	switch c.Source {
	case SourceBuiltin:
	case SourceMySQL:
		if c.MySQLDSN == "" {
			return errors.New("mysql source requires -dsn or DB_DSN")
		}
	case SourceNeo4j:
		if c.Neo4j.URI == "" {
			return errors.New("neo4j source requires -neo4j-uri or NEO4J_URI")
		}
	default:
		return fmt.Errorf("unknown graph source %q", c.Source)
	}
	if c.SessionIdle <= 0 {
		return fmt.Errorf("session idle timeout must be positive, got %v", c.SessionIdle)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
