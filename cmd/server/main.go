// Package main is the entry point for the exercise tracker server.
//
// The main package stays minimal. Its job is to:
//  1. Read configuration (defaults, YAML file, .env, environment)
//  2. Create dependencies (logger, the store connection)
//  3. Start the server
//
// All actual logic lives in the internal packages, which keeps them testable
// without a running process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/exercise-tracker/internal/config"
	"github.com/sakif/exercise-tracker/internal/logging"
	"github.com/sakif/exercise-tracker/internal/repository"
	"github.com/sakif/exercise-tracker/internal/repository/mongo"
	"github.com/sakif/exercise-tracker/internal/repository/sqlite"
	"github.com/sakif/exercise-tracker/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// There is no logger yet, so a broken config goes straight to stderr.
	// config.Load validates as well, so everything after this point can trust
	// the values (port in range, driver known, timeouts positive).
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// The closer flushes and releases the rotating log file when LOG_FILE is
	// set. os.Exit skips deferred calls, so the error path closes it by hand.
	logger, logCloser, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	// === 3. OPEN THE STORE AND RUN ===
	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	// From here on the server owns the store and closes it on shutdown.
	srv, err := server.New(cfg, logger, store)
	if err != nil {
		store.Close()
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT/SIGTERM.
	return srv.Start()
}

// openStore opens the single store handle shared by every request.
//
// STORE_DRIVER picks the backend:
//   - "sqlite" (default): embedded file at DB_PATH, nothing else to run
//   - "mongo": a MongoDB server at MONGO_URI
//
// Both satisfy repository.Store, so nothing above this function knows which
// one is in use.
func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		// Connecting includes a ping and the index setup; bound it the same
		// way a request would be bounded.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		db, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return db, nil

	default:
		// The database file is created on first open, but its directory is
		// not. os.MkdirAll behaves like `mkdir -p`.
		if cfg.DBPath != sqlite.InMemory {
			dir := filepath.Dir(cfg.DBPath)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}

		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return db, nil
	}
}
