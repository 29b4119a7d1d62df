// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB when configured
// for the MySQL wire protocol.
//
// Public entry points:
//
//	Open(dsn)                              – helper with registry-sized pool.
//	OpenWithOptions(dsn, maxOpen, maxIdle) – fine-grained control.
//
// Both helpers Ping the database before returning so the entry point
// can fail fast during bootstrap: an unreachable database is a fatal
// startup error, reported once and followed by exit 1.  Callers should
// Close() the returned *sqlx.DB when no longer needed.
//
// The registry serves one operator at a time, so the pool is tiny —
// each operation checks a connection out for the duration of its own
// statement or transaction and hands it straight back.
package database

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open returns a *sqlx.DB sized for the single-operator console: 2 max
// open, 1 idle, 30-minute connection lifetime.
func Open(dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(dsn, 2, 1)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle per pool.
func OpenWithOptions(dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
