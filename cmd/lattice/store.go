package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/internal/logging"
	"github.com/latticehq/lattice/pkg/adapters/file"
	"github.com/latticehq/lattice/pkg/adapters/redis"
	"github.com/latticehq/lattice/pkg/ports"
)

// openStore picks the backing store from flags. A non-empty --redis
// address wins over the file directory.
func openStore(cmd *cobra.Command) (ports.WorkflowStore, error) {
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		return redis.New(addr, password, db), nil
	}
	dir, _ := cmd.Flags().GetString("dir")
	store, err := file.New(dir)
	if err != nil {
		return nil, fmt.Errorf("open workflow directory %q: %w", dir, err)
	}
	return store, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	switch strings.ToLower(level) {
	case "debug":
		return logging.New(slog.LevelDebug)
	case "warn":
		return logging.New(slog.LevelWarn)
	case "error":
		return logging.New(slog.LevelError)
	default:
		return logging.New(slog.LevelInfo)
	}
}

func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address (host:port); uses the file store when empty")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database index")
}
