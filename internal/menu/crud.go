// internal/menu/crud.go
//
// Create, update, toggle, and delete flows.
//
// The one non-obvious business rule of the whole system lives in
// updateFlow: when the operator supplies a new postal code that cannot
// be resolved, the update silently reverts to the original code and
// street and still applies the other field changes.  Creation, by
// contrast, aborts outright on an unresolvable code.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inovarea/registry/internal/cep"
	"github.com/inovarea/registry/internal/record"
)

var vld = validator.New()

// createInput is the validated operator input for a new record.
type createInput struct {
	Name        string `validate:"required"`
	Description string `validate:"max=4000"`
	PostalCode  string `validate:"required"`
}

// createFlow: name → description → postal code → lookup → insert.
// An invalid or unresolvable code aborts before anything is written.
func (m *Menu) createFlow(ctx context.Context) {
	m.clear()
	m.rule(30)
	fmt.Fprintln(m.out, "  1. CREATE NEW RECORD  ")
	m.rule(30)

	in := createInput{
		Name: m.readLine("Record NAME: "),
	}
	if in.Name == "" {
		fmt.Fprintln(m.out, "Name must not be empty.")
		m.pause()
		return
	}
	in.Description = m.readLine("DESCRIPTION: ")
	in.PostalCode = m.readLine("POSTAL CODE (used to look up the street): ")

	if err := vld.Struct(in); err != nil {
		fmt.Fprintf(m.out, "Invalid input: %v\n", err)
		m.pause()
		return
	}

	fmt.Fprintln(m.out, "Querying address lookup service...")
	addr, err := m.lookup.Resolve(ctx, in.PostalCode)
	if err != nil {
		fmt.Fprintln(m.out, resolveMessage(err))
		fmt.Fprintln(m.out, "Creation cancelled.  Postal code invalid or not found.")
		m.pause()
		return
	}

	id, err := m.store.Insert(ctx, in.Name, in.Description, addr.Code, addr.Street)
	if err != nil {
		fmt.Fprintf(m.out, "Database error while creating the record: %v\n", err)
		m.pause()
		return
	}

	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintf(m.out, "RECORD CREATED.  ID: %d\n", id)
	fmt.Fprintf(m.out, "Street saved: %s\n", addr.Street)
	m.rule(50)
	m.pause()
}

// updateFlow: fetch → blank keeps current → re-resolve a changed code,
// reverting silently on failure → persist.
func (m *Menu) updateFlow(ctx context.Context) {
	m.clear()
	m.rule(30)
	fmt.Fprintln(m.out, "  2. UPDATE RECORD  ")
	m.rule(30)

	id, err := m.readID("Id of the record to update: ")
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

	fmt.Fprintln(m.out, "\n--- Current values ---")
	fmt.Fprintf(m.out, "1. Name: %s\n", rec.Name)
	fmt.Fprintf(m.out, "2. Description: %s\n", rec.Description)
	fmt.Fprintf(m.out, "3. Postal code: %s\n", rec.PostalCode)
	fmt.Fprintf(m.out, "   Street: %s\n", rec.StreetAddress)
	fmt.Fprintln(m.out, "----------------------")

	name := keepCurrent(m.readLine(fmt.Sprintf("New NAME (current: %s): ", rec.Name)), rec.Name)
	desc := keepCurrent(m.readLine(fmt.Sprintf("New DESCRIPTION (current: %s): ", rec.Description)), rec.Description)
	code := keepCurrent(m.readLine(fmt.Sprintf("New POSTAL CODE (blank keeps %s): ", rec.PostalCode)), rec.PostalCode)

	street := rec.StreetAddress
	codeChanged := code != rec.PostalCode
	if codeChanged {
		addr, err := m.lookup.Resolve(ctx, code)
		if err != nil {
			// Leniency rule: a failed re-resolution never fails the
			// update; the original code/street pair is kept instead.
			fmt.Fprintln(m.out, "Postal code invalid or not found.  Keeping previous code and street.")
			code = rec.PostalCode
			street = rec.StreetAddress
			codeChanged = false
		} else {
			code = addr.Code
			street = addr.Street
		}
	}

	if err := m.store.Update(ctx, id, name, desc, code, street); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			fmt.Fprintf(m.out, "No record found with id %d.\n", id)
		} else {
			fmt.Fprintf(m.out, "Database error while updating: %v\n", err)
		}
		m.pause()
		return
	}

	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintf(m.out, "RECORD %d UPDATED.\n", id)
	if codeChanged {
		fmt.Fprintf(m.out, "New street saved: %s\n", street)
	}
	m.rule(50)
	m.pause()
}

// toggleFlow flips the active flag after a single-letter confirmation.
// The displayed target label derives from the stored flag alone.
func (m *Menu) toggleFlow(ctx context.Context) {
	m.clear()
	m.rule(40)
	fmt.Fprintln(m.out, "  3. DEACTIVATE/ACTIVATE RECORD (STATUS)  ")
	m.rule(40)

	id, err := m.readID("Record id: ")
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

	target := !rec.Active
	fmt.Fprintf(m.out, "\nRecord %d: %s (current status: %s)\n", id, rec.Name, rec.StatusLabel())
	answer := strings.ToUpper(m.readLine(
		fmt.Sprintf("Confirm changing the status to %s? (Y/N): ", record.StatusLabel(target))))
	if answer != "Y" {
		fmt.Fprintln(m.out, "Operation cancelled.")
		m.pause()
		return
	}

	if err := m.store.ToggleActive(ctx, id, target); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			fmt.Fprintf(m.out, "No record found with id %d.\n", id)
		} else {
			fmt.Fprintf(m.out, "Database error while changing status: %v\n", err)
		}
		m.pause()
		return
	}

	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintf(m.out, "RECORD %d SET TO STATUS: %s\n", id, record.StatusLabel(target))
	m.rule(50)
	m.pause()
}

// deleteFlow permanently removes a record.  It demands the literal
// word YES — a stronger confirmation than the toggle's single letter.
func (m *Menu) deleteFlow(ctx context.Context) {
	m.clear()
	m.rule(30)
	fmt.Fprintln(m.out, "  4. DELETE RECORD (PERMANENT)  ")
	m.rule(30)

	id, err := m.readID("Id of the record to DELETE: ")
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

	fmt.Fprintf(m.out, "\nRecord: %d - %s (%s)\n", rec.ID, rec.Name, rec.Description)
	fmt.Fprintln(m.out, "WARNING: this operation is IRREVERSIBLE (DELETE FROM)!")
	answer := strings.ToUpper(m.readLine("Confirm PERMANENT DELETION? (type 'YES' to confirm): "))
	if answer != "YES" {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		m.pause()
		return
	}

	if err := m.store.Delete(ctx, id); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			fmt.Fprintf(m.out, "Could not delete record %d.\n", id)
		} else {
			fmt.Fprintf(m.out, "Database error while deleting: %v\n", err)
		}
		m.pause()
		return
	}

	fmt.Fprintln(m.out)
	m.rule(50)
	fmt.Fprintf(m.out, "RECORD %d PERMANENTLY DELETED.\n", id)
	m.rule(50)
	m.pause()
}

/*──────────────────────────── shared helpers ──────────────────────────────*/

// keepCurrent implements "blank input keeps the current value".
func keepCurrent(input, current string) string {
	if input == "" {
		return current
	}
	return input
}

// reportFetchError prints the right message for a failed FetchByID and
// pauses.
func (m *Menu) reportFetchError(id int64, err error) {
	if errors.Is(err, record.ErrNotFound) {
		fmt.Fprintf(m.out, "No record found with id %d.\n", id)
	} else {
		fmt.Fprintf(m.out, "Error fetching record: %v\n", err)
	}
	m.pause()
}

// resolveMessage maps lookup errors to operator text.
func resolveMessage(err error) string {
	switch {
	case errors.Is(err, cep.ErrInvalidCode):
		return "Invalid postal code (must have 8 digits)."
	case errors.Is(err, cep.ErrNotFound):
		return "Postal code not found by the lookup service."
	case errors.Is(err, cep.ErrUnavailable):
		return "Could not reach the lookup service after multiple attempts."
	default:
		return fmt.Sprintf("Lookup failed: %v", err)
	}
}
