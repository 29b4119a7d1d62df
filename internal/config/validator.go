// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after
// it unmarshals the merged Koanf tree into a `Config` instance.  Any
// tag mismatch or validation error aborts startup, ensuring the binary
// never runs with partial, malformed, or missing configuration.
//
// The rules in play are `required` and `url` on the lookup endpoint,
// and `min=1` on the per-attempt timeout.  Custom rules—e.g., a DSN
// shape check—can be registered here as the configuration surface
// grows.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
