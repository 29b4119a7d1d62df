// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. Optional `conf/registry.yaml`.
  3. Environment variables prefixed `REGISTRY_`, where `__` maps to “.”
     (e.g., `REGISTRY_DATABASE__DSN → database.dsn`).

After merging, the tree is unmarshalled into strongly-typed structs,
back-filled with code defaults, enriched with the runtime root path, and
validated.  Unlike a server, the console loads once per process — there
is no reload path.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/registry.yaml`;
    this lets `go run ./cmd/registry` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Fallback defaults.  Everything can run against a local database with
// no configuration present at all.
const (
	defaultDSN = "registry:registry@tcp(127.0.0.1:3306)/registry" +
		"?parseTime=true&clientFoundRows=true&charset=utf8mb4"
	defaultLookupBaseURL = "https://viacep.com.br"
	defaultLookupTimeout = 5 // seconds
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves REGISTRY_ROOT or climbs directories until
// conf/registry.yaml is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv("REGISTRY_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "registry.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, applies defaults, validates,
// and returns the Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	// YAML layer is optional: a bare checkout with env vars only is a
	// supported deployment.
	yamlPath := filepath.Join(root, "conf", "registry.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: REGISTRY_DATABASE__DSN → database.dsn
	if err := k.Load(env.Provider("REGISTRY_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, "REGISTRY_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// applyDefaults back-fills every unset field so a zero-config start
// still yields a valid aggregate.
func applyDefaults(c *Config) {
	if c.Database.DSN == "" {
		c.Database.DSN = defaultDSN
	}
	if c.Lookup.BaseURL == "" {
		c.Lookup.BaseURL = defaultLookupBaseURL
	}
	if c.Lookup.TimeoutSeconds == 0 {
		c.Lookup.TimeoutSeconds = defaultLookupTimeout
	}
}
