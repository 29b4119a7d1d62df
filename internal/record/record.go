// internal/record/record.go
//
// Record model and shared sentinel errors.
//
// Context
// -------
// A Record is the sole persisted entity of the registry: a named item
// enriched with a street address resolved from its postal code.  The
// street address is always derived from the most recently accepted
// postal code; the two never disagree in storage because every write
// path sets them together.
//
// `Active` is a soft visibility marker.  It only affects the
// active-only listing and the JSON export; inactive rows remain fully
// visible everywhere else.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package record

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested record does not exist, or
// when a write touched zero rows.  Callers treat it as definitive — it
// is never retried.
var ErrNotFound = errors.New("record not found")

// ErrValidation is returned when operator input fails a business rule
// (empty name, malformed identifier, malformed postal code).  It is
// reported inline and produces no side effects.
var ErrValidation = errors.New("validation error")

// Record is one registry row.  UpdatedAt is nil until the first
// mutation (update or status toggle); CreatedAt never changes after
// insertion.
type Record struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Description   string     `db:"description" json:"description"`
	PostalCode    string     `db:"postal_code" json:"postal_code"`
	StreetAddress string     `db:"street_address" json:"street_address"`
	Active        bool       `db:"active" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"-"`
	UpdatedAt     *time.Time `db:"updated_at" json:"-"`
}

// StatusLabel renders the active flag for operator-facing output.  The
// label is derived from the stored flag only; nothing else feeds it.
func (r Record) StatusLabel() string {
	return StatusLabel(r.Active)
}

// StatusLabel is the single source of truth for status display text.
func StatusLabel(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}
