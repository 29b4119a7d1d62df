// internal/menu/reports.go
//
// Listing, find-by-id, and export flows.
package menu

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/inovarea/registry/internal/export"
)

// listFlow renders a table of records, optionally filtered to active
// ones.  An empty result set is a normal outcome, not an error.
func (m *Menu) listFlow(ctx context.Context, activeOnly bool, title string) {
	recs, err := m.store.FetchAll(ctx, activeOnly)
	if err != nil {
		fmt.Fprintf(m.out, "Error listing records: %v\n", err)
		m.pause()
		return
	}

	m.clear()
	m.rule(60)
	fmt.Fprintf(m.out, "  %s (%d records)\n", title, len(recs))
	m.rule(60)

	if len(recs) == 0 {
		fmt.Fprintln(m.out, "No records found.")
		m.pause()
		return
	}

	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tNAME\tDESCRIPTION\tSTREET")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.StatusLabel(), trunc(r.Name, 20), trunc(r.Description, 20), trunc(r.StreetAddress, 30))
	}
	w.Flush()
	m.pause()
}

// findFlow shows one record as a detail card.
func (m *Menu) findFlow(ctx context.Context) {
	m.clear()
	m.rule(30)
	fmt.Fprintln(m.out, "  FIND RECORD BY ID  ")
	m.rule(30)

	id, err := m.readID("Id of the record to find: ")
	if err != nil {
		fmt.Fprintln(m.out, "Id must be an integer.")
		m.pause()
		return
	}

	rec, err := m.store.FetchByID(ctx, id)
	if err != nil {
		m.reportFetchError(id, err)
		return
	}

	m.clear()
	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintf(m.out, "  RECORD FOUND (ID: %d)\n", rec.ID)
	m.rule(50)
	fmt.Fprintf(m.out, "Name: %s\n", rec.Name)
	fmt.Fprintf(m.out, "Description: %s\n", rec.Description)
	fmt.Fprintf(m.out, "Postal code: %s\n", rec.PostalCode)
	fmt.Fprintf(m.out, "Street: %s\n", rec.StreetAddress)
	fmt.Fprintf(m.out, "Status: %s\n", rec.StatusLabel())
	fmt.Fprintf(m.out, "Created at: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	if rec.UpdatedAt != nil {
		fmt.Fprintf(m.out, "Updated at: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	m.rule(50)
	m.pause()
}

// exportFlow writes the active records to the fixed JSON file.
func (m *Menu) exportFlow(ctx context.Context) {
	m.clear()
	m.rule(40)
	fmt.Fprintln(m.out, "  EXPORT ACTIVE RECORDS TO JSON  ")
	m.rule(40)

	path, n, err := m.export.ExportActive(ctx)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			fmt.Fprintln(m.out, "There are no ACTIVE records to export.")
		} else {
			fmt.Fprintf(m.out, "Error writing the JSON file: %v\n", err)
		}
		m.pause()
		return
	}

	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintln(m.out, "EXPORT COMPLETE.")
	fmt.Fprintf(m.out, "Records exported: %d\n", n)
	fmt.Fprintf(m.out, "File saved at: %s\n", path)
	m.rule(50)
	m.pause()
}

// trunc caps s at n runes for the listing table.
func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
