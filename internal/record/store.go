// internal/record/store.go
//
// Parameterised SQL helpers for the records table.
//
// Context
// -------
// The Store owns every statement that touches `records` and its
// identifier generator `records_seq`.  It is deliberately thin: no
// business rules live here, only SQL, type mapping, and per-operation
// transaction scope.  Each write runs in its own transaction and is
// committed or rolled back before the call returns; reads are plain
// queries.  The underlying pool hands each call a scoped connection
// and takes it back when the operation finishes.
//
// The DSN must carry `clientFoundRows=true` so RowsAffected reports
// *matched* rows, which is what the zero-rows → not-found mapping
// relies on, and `parseTime=true` for the DATETIME columns.
//
// Notes
// -----
// • Audit events use the CRUD_* category tags.
// • Oxford commas, two spaces after periods.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store executes parameterised statements against the backing database.
// Construct with NewStore; in tests pass an sqlx wrapper around a
// sqlmock connection.
type Store struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// NewStore returns a Store over the given pool.  The logger receives
// one audit event per completed or failed write.
func NewStore(db *sqlx.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// Insert claims the next identifier from records_seq and inserts a new
// row with active=1 and both timestamps set to now.  Returns the
// generated identifier.  On any database error the transaction is
// rolled back and nothing is created.
func (s *Store) Insert(ctx context.Context, name, description, postalCode, streetAddress string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, s.insertErr(err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `INSERT INTO records_seq () VALUES ()`)
	if err != nil {
		return 0, s.insertErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, s.insertErr(err)
	}

	const q = `
		INSERT INTO records
		    (id, name, description, postal_code, street_address, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, NOW(), NOW())`
	if _, err := tx.ExecContext(ctx, q, id, name, description, postalCode, streetAddress); err != nil {
		return 0, s.insertErr(err)
	}
	if err := tx.Commit(); err != nil {
		return 0, s.insertErr(err)
	}

	s.log.Infow("record created", "event", "CRUD_CREATE", "id", id, "name", name)
	return id, nil
}

func (s *Store) insertErr(err error) error {
	s.log.Errorw("record create failed", "event", "CRUD_CREATE_ERR", "err", err)
	return fmt.Errorf("record.Store.Insert: %w", err)
}

// FetchAll returns every record ordered by identifier ascending.  With
// activeOnly set, inactive rows are filtered out.  An empty table is
// not an error; the result is simply an empty slice.
func (s *Store) FetchAll(ctx context.Context, activeOnly bool) ([]Record, error) {
	q := `
		SELECT id, name, COALESCE(description, '') AS description,
		       COALESCE(postal_code, '') AS postal_code,
		       COALESCE(street_address, '') AS street_address,
		       active, created_at, updated_at
		  FROM records`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY id`

	out := []Record{}
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		s.log.Errorw("record list failed", "event", "CRUD_READ_ERR", "err", err)
		return nil, fmt.Errorf("record.Store.FetchAll: %w", err)
	}
	return out, nil
}

// FetchByID returns a single record, or ErrNotFound when no row has
// that identifier.
func (s *Store) FetchByID(ctx context.Context, id int64) (Record, error) {
	const q = `
		SELECT id, name, COALESCE(description, '') AS description,
		       COALESCE(postal_code, '') AS postal_code,
		       COALESCE(street_address, '') AS street_address,
		       active, created_at, updated_at
		  FROM records
		 WHERE id = ?`

	var r Record
	if err := s.db.GetContext(ctx, &r, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		s.log.Errorw("record fetch failed", "event", "CRUD_READ_ONE_ERR", "id", id, "err", err)
		return Record{}, fmt.Errorf("record.Store.FetchByID: %w", err)
	}
	return r, nil
}

// Update overwrites the four mutable fields and stamps updated_at.
// The active flag is never touched here.  Zero matched rows map to
// ErrNotFound.
func (s *Store) Update(ctx context.Context, id int64, name, description, postalCode, streetAddress string) error {
	const q = `
		UPDATE records
		   SET name = ?, description = ?, postal_code = ?, street_address = ?,
		       updated_at = NOW()
		 WHERE id = ?`

	err := s.execOne(ctx, q, name, description, postalCode, streetAddress, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Errorw("record update failed", "event", "CRUD_UPDATE_ERR", "id", id, "err", err)
		}
		return fmt.Errorf("record.Store.Update: %w", err)
	}
	s.log.Infow("record updated", "event", "CRUD_UPDATE", "id", id)
	return nil
}

// ToggleActive sets the active flag and stamps updated_at.  The caller
// supplies the new value; the Store does not read-modify-write.
func (s *Store) ToggleActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE records SET active = ?, updated_at = NOW() WHERE id = ?`

	err := s.execOne(ctx, q, active, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Errorw("record toggle failed", "event", "CRUD_TOGGLE_ERR", "id", id, "err", err)
		}
		return fmt.Errorf("record.Store.ToggleActive: %w", err)
	}
	s.log.Infow("record status changed", "event", "CRUD_TOGGLE", "id", id, "status", StatusLabel(active))
	return nil
}

// Delete permanently removes the row.  Zero affected rows report
// ErrNotFound even though no database error occurred — the operator is
// told the delete did not happen.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.execOne(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Errorw("record delete failed", "event", "CRUD_DELETE_ERR", "id", id, "err", err)
		}
		return fmt.Errorf("record.Store.Delete: %w", err)
	}
	s.log.Infow("record deleted", "event", "CRUD_DELETE", "id", id)
	return nil
}

// execOne runs a single-row write inside its own transaction and maps
// zero affected rows to ErrNotFound.
func (s *Store) execOne(ctx context.Context, q string, args ...any) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
