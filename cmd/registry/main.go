// cmd/registry/main.go
//
// Registry console – entry point.
//
// Startup sequence
// ----------------
//
//  1. Load env vars (server-wide file → .env fallback).
//
//  2. Load the layered configuration (.env / YAML / REGISTRY_ overrides).
//
//  3. Start the rotating audit logger (tees to console when running in
//     a TTY).
//
//  4. Open the database and ping it.  An unreachable database is a
//     fatal startup error: one message, exit 1, nothing written.
//
//  5. Wire store, lookup client, exporter, and menu controller, then
//     hand the terminal to the menu loop.  Exit 0 on a normal quit.
//
// No business logic belongs here — wiring only.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/inovarea/registry/internal/cep"
	"github.com/inovarea/registry/internal/config"
	"github.com/inovarea/registry/internal/database"
	"github.com/inovarea/registry/internal/export"
	"github.com/inovarea/registry/internal/logger"
	"github.com/inovarea/registry/internal/menu"
	"github.com/inovarea/registry/internal/record"
)

const serverEnvPath = "/usr/local/etc/registry/global.env"

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync() //nolint:errcheck // stdout sync is best-effort

	//
	// ── 1.  Database connect (fail fast) ────────────────────────────────
	//
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logOut.Errorw("database connection failed", "event", "DB_CONNECT_ERROR", "err", err)
		fmt.Fprintln(os.Stderr, "FATAL: could not connect to the database.")
		fmt.Fprintf(os.Stderr, "Detail: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	logOut.Infow("database connection established", "event", "DB_CONNECT")

	//
	// ── 2.  Component wiring ────────────────────────────────────────────
	//
	store := record.NewStore(db, logOut)
	lookup := cep.New(cfg.Lookup.BaseURL, cfg.Lookup.Timeout(), logOut)
	exporter := export.New(store, cfg.Export.Dir, logOut)

	//
	// ── 3.  Menu loop until the operator exits ──────────────────────────
	//
	m := menu.New(db, store, lookup, exporter, logOut, os.Stdin, os.Stdout)
	m.Run(context.Background())
}
