// internal/schema/bootstrap.go
//
// Idempotent storage-schema bootstrap.
//
// Context
// -------
// Ensure provisions everything the registry needs: the records table,
// its identifier generator, and the three columns that were added after
// the first production deployment (active, created_at, updated_at).
// It is run on demand from the setup menu entry, never automatically,
// and is safe against partially provisioned databases: every DDL step
// is independently tolerant of "already exists", and a step that fails
// for any other reason is logged and skipped rather than aborting the
// call.
//
// Already-exists detection uses the server's structured error numbers
// (ER_TABLE_EXISTS_ERROR, ER_DUP_FIELDNAME), never error-text matching.
//
// MySQL has no CREATE SEQUENCE; the generator is a dedicated
// AUTO_INCREMENT table whose counter survives row deletion, which gives
// the registry monotonic, never-reused identifiers.
//
// Notes
// -----
// • DDL auto-commits on MySQL, so there is no final commit step.
// • Oxford commas, two spaces after periods.
package schema

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MySQL server error numbers tolerated as "already provisioned".
const (
	errTableExists  = 1050 // ER_TABLE_EXISTS_ERROR
	errDupFieldName = 1060 // ER_DUP_FIELDNAME
)

// step is one independent DDL statement plus the error numbers that
// mean it has already been applied.
type step struct {
	name      string
	stmt      string
	skipCodes []uint16
}

var steps = []step{
	{
		name: "records table",
		stmt: `
			CREATE TABLE records (
				id             BIGINT PRIMARY KEY,
				name           VARCHAR(100) NOT NULL,
				description    VARCHAR(4000),
				postal_code    CHAR(8),
				street_address VARCHAR(255),
				active         TINYINT(1) DEFAULT 1,
				created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at     DATETIME NULL
			)`,
		skipCodes: []uint16{errTableExists},
	},
	{
		name:      "records_seq generator",
		stmt:      `CREATE TABLE records_seq (id BIGINT AUTO_INCREMENT PRIMARY KEY)`,
		skipCodes: []uint16{errTableExists},
	},
	{
		name:      "active column",
		stmt:      `ALTER TABLE records ADD COLUMN active TINYINT(1) DEFAULT 1`,
		skipCodes: []uint16{errDupFieldName},
	},
	{
		name:      "created_at column",
		stmt:      `ALTER TABLE records ADD COLUMN created_at DATETIME DEFAULT CURRENT_TIMESTAMP`,
		skipCodes: []uint16{errDupFieldName},
	},
	{
		name:      "updated_at column",
		stmt:      `ALTER TABLE records ADD COLUMN updated_at DATETIME NULL`,
		skipCodes: []uint16{errDupFieldName},
	},
}

// Ensure applies every bootstrap step.  Safe to call any number of
// times; never returns an error for a per-step failure — each outcome
// is audited (DDL, DDL_SKIP, or DDL_ERR) and the next step still runs.
func Ensure(ctx context.Context, db *sqlx.DB, log *zap.SugaredLogger) {
	for _, s := range steps {
		_, err := db.ExecContext(ctx, s.stmt)
		switch {
		case err == nil:
			log.Infow("schema object created", "event", "DDL", "object", s.name)
		case alreadyApplied(err, s.skipCodes):
			log.Infow("schema object already present", "event", "DDL_SKIP", "object", s.name)
		default:
			log.Errorw("schema step failed", "event", "DDL_ERR", "object", s.name, "err", err)
		}
	}
}

// alreadyApplied reports whether err carries one of the tolerated MySQL
// error numbers.
func alreadyApplied(err error, codes []uint16) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	for _, c := range codes {
		if me.Number == c {
			return true
		}
	}
	return false
}
