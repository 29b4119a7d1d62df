// internal/config/model.go
//
// Typed configuration model for the registry console.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • optional `conf/registry.yaml`            – static file,
//   • `REGISTRY_`-prefixed environment overrides – highest precedence.
//
// Every field has a code-level fallback default, so the console starts
// with zero configuration present; environment variables are the
// expected way to point it at a real database.
//
// Validation happens immediately after unmarshal; the app fails fast
// if a value is malformed.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not set it.
//   • Oxford commas, two spaces after periods.  No em-dash.
package config

import "time"

//
// Database section
//

// Database holds the MySQL/MariaDB connection string.  The default DSN
// carries `parseTime=true` (DATETIME → time.Time) and
// `clientFoundRows=true` (RowsAffected reports matched rows, which the
// store's zero-rows → not-found mapping depends on).  Override with
// REGISTRY_DATABASE__DSN.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

//
// Lookup section
//

// Lookup configures the postal-code lookup client.
type Lookup struct {
	BaseURL        string `koanf:"base_url" validate:"required,url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" validate:"min=1"`
}

// Timeout returns the per-attempt HTTP timeout as a duration.
func (l Lookup) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

//
// Export section
//

// Export configures where the active-records JSON file is written.
// Empty means the working directory.
type Export struct {
	Dir string `koanf:"dir"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or REGISTRY_ROOT override) so later code
// can build absolute file paths, e.g. the audit-log directory.
type Paths struct {
	Root string // REGISTRY_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().  It is handed
// to each component at construction time; nothing reads configuration
// ambiently after startup.
type Config struct {
	Database Database `koanf:"database"`
	Lookup   Lookup   `koanf:"lookup"`
	Export   Export   `koanf:"export"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
