// internal/export/exporter.go
//
// JSON export of active records.
//
// The export is active-only, so each object drops the redundant active
// flag and carries exactly: id, name, description, postal_code, and
// street_address.  The file name is fixed and the file is overwritten
// on every run.  Zero active records write nothing at all.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inovarea/registry/internal/record"
)

// FileName is the fixed export target inside the configured directory.
const FileName = "export_active_records.json"

// ErrNothingToExport is returned when no active records exist.  No file
// is written in that case, not even an empty array.
var ErrNothingToExport = errors.New("no active records to export")

// Exporter serialises the active slice of the registry to disk.
type Exporter struct {
	store *record.Store
	dir   string
	log   *zap.SugaredLogger
}

// New returns an Exporter writing into dir (the working directory when
// empty).
func New(store *record.Store, dir string, log *zap.SugaredLogger) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{store: store, dir: dir, log: log}
}

// row is the exported shape of one record.
type row struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PostalCode    string `json:"postal_code"`
	StreetAddress string `json:"street_address"`
}

// ExportActive fetches the active records and writes them, ordered by
// identifier, as an indented UTF-8 JSON array.  Returns the path
// written and the number of exported objects.
func (e *Exporter) ExportActive(ctx context.Context) (string, int, error) {
	recs, err := e.store.FetchAll(ctx, true)
	if err != nil {
		e.log.Errorw("export failed", "event", "EXPORT_JSON_ERR", "err", err)
		return "", 0, fmt.Errorf("export.ExportActive: %w", err)
	}
	if len(recs) == 0 {
		return "", 0, ErrNothingToExport
	}

	rows := make([]row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, row{
			ID:            r.ID,
			Name:          r.Name,
			Description:   r.Description,
			PostalCode:    r.PostalCode,
			StreetAddress: r.StreetAddress,
		})
	}

	data, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		e.log.Errorw("export failed", "event", "EXPORT_JSON_ERR", "err", err)
		return "", 0, fmt.Errorf("export.ExportActive: %w", err)
	}

	path := filepath.Join(e.dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.log.Errorw("export failed", "event", "EXPORT_JSON_ERR", "path", path, "err", err)
		return "", 0, fmt.Errorf("export.ExportActive: %w", err)
	}

	e.log.Infow("export written", "event", "EXPORT_JSON", "count", len(rows), "path", path)
	return path, len(rows), nil
}
