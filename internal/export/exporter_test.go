// internal/export/exporter_test.go
//
// Unit-tests for the active-records JSON export.

package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/inovarea/registry/internal/record"
)

var recordColumns = []string{
	"id", "name", "description", "postal_code", "street_address",
	"active", "created_at", "updated_at",
}

func newExporter(t *testing.T) (*Exporter, sqlmock.Sqlmock, string) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	store := record.NewStore(sqlx.NewDb(db, "sqlmock"), zap.NewNop().Sugar())
	return New(store, dir, zap.NewNop().Sugar()), mock, dir
}

func TestExportActive_WritesOnlyActiveFields(t *testing.T) {
	e, mock, dir := newExporter(t)
	now := time.Now()

	mock.ExpectQuery(`FROM records WHERE active = 1 ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(1, "Alpha", "first", "01001000", "Praça da Sé", true, now, nil).
			AddRow(4, "Delta", "", "20040030", "Av. Rio Branco", true, now, now))

	path, n, err := e.ExportActive(context.Background())
	if err != nil {
		t.Fatalf("ExportActive error: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if path != filepath.Join(dir, FileName) {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("exported %d objects, want 2", len(rows))
	}
	if rows[0]["name"] != "Alpha" || rows[0]["street_address"] != "Praça da Sé" {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
	for i, r := range rows {
		if _, ok := r["active"]; ok {
			t.Errorf("row %d carries an active key; export must drop it", i)
		}
	}
}

func TestExportActive_NothingToExportWritesNoFile(t *testing.T) {
	e, mock, dir := newExporter(t)

	mock.ExpectQuery(`FROM records WHERE active = 1 ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, _, err := e.ExportActive(context.Background())
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatal("no file should be written when there is nothing to export")
	}
}

func TestExportActive_OverwritesPreviousFile(t *testing.T) {
	e, mock, dir := newExporter(t)
	now := time.Now()

	stale := filepath.Join(dir, FileName)
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	mock.ExpectQuery(`FROM records WHERE active = 1 ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(9, "Iota", "", "01310100", "Av. Paulista", true, now, nil))

	if _, _, err := e.ExportActive(context.Background()); err != nil {
		t.Fatalf("ExportActive error: %v", err)
	}

	data, _ := os.ReadFile(stale)
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) != 1 {
		t.Fatalf("stale file not overwritten: %s", data)
	}
}
