// internal/menu/menu.go
//
// Interactive menu controller.
//
// Context
// -------
// The registry is driven by three nested text menus — main, CRUD, and
// reports — each a plain loop: display options, read one selection,
// dispatch, repeat.  The only terminal state is the explicit exit
// selection on the main menu.  Everything is strictly sequential; one
// operator action runs at a time.
//
// The controller is the error boundary of the whole program: every
// failure from the store, the lookup client, or the exporter is
// converted here into an operator-visible message.  Nothing propagates
// past Run.
//
// Reader and writer are injected so tests can script operator input
// and capture screen output.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/inovarea/registry/internal/cep"
	"github.com/inovarea/registry/internal/export"
	"github.com/inovarea/registry/internal/record"
	"github.com/inovarea/registry/internal/schema"
)

// Menu drives the operator session.
type Menu struct {
	in     *bufio.Scanner
	out    io.Writer
	db     *sqlx.DB
	store  *record.Store
	lookup *cep.Client
	export *export.Exporter
	log    *zap.SugaredLogger

	eof bool // input exhausted; loops unwind instead of spinning
}

// New wires the controller.  The db handle is only used by the schema
// setup menu entry; all CRUD goes through the store.
func New(db *sqlx.DB, store *record.Store, lookup *cep.Client, exp *export.Exporter,
	log *zap.SugaredLogger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		db:     db,
		store:  store,
		lookup: lookup,
		export: exp,
		log:    log,
	}
}

// Run loops on the main menu until the operator exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for !m.eof {
		m.clear()
		m.rule(60)
		fmt.Fprintln(m.out, "                 INOVAREA REGISTRY                 ")
		m.rule(60)
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "  MAIN MENU:")
		fmt.Fprintln(m.out, "1. CRUD operations (create, update, delete)")
		fmt.Fprintln(m.out, "2. Reports (lists, find by id, JSON export)")
		fmt.Fprintln(m.out, "3. (First run) Database setup (DDL)")
		fmt.Fprintln(m.out, "0. Exit")
		m.rule(60)

		switch m.readLine("Option: ") {
		case "1":
			m.crudLoop(ctx)
		case "2":
			m.reportsLoop(ctx)
		case "3":
			schema.Ensure(ctx, m.db, m.log)
			fmt.Fprintln(m.out, "Setup complete.")
			m.pause()
		case "0":
			m.clear()
			fmt.Fprintln(m.out, "Leaving the registry.  See you next time!")
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
			m.pause()
		}
	}
}

// crudLoop shows the create/update/toggle/delete menu.
func (m *Menu) crudLoop(ctx context.Context) {
	for !m.eof {
		m.clear()
		m.rule(30)
		fmt.Fprintln(m.out, "  CRUD MENU - OPERATIONS  ")
		m.rule(30)
		fmt.Fprintln(m.out, "1. Create NEW record (includes address lookup)")
		fmt.Fprintln(m.out, "2. Update record")
		fmt.Fprintln(m.out, "3. Deactivate/activate record (status)")
		fmt.Fprintln(m.out, "4. Delete record (permanent)")
		fmt.Fprintln(m.out, "0. Back to main menu")
		m.rule(30)

		switch m.readLine("Option: ") {
		case "1":
			m.createFlow(ctx)
		case "2":
			m.updateFlow(ctx)
		case "3":
			m.toggleFlow(ctx)
		case "4":
			m.deleteFlow(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
			m.pauseMsg("Press ENTER to try again...")
		}
	}
}

// reportsLoop shows the listing/find/export menu.
func (m *Menu) reportsLoop(ctx context.Context) {
	for !m.eof {
		m.clear()
		m.rule(40)
		fmt.Fprintln(m.out, "  REPORTS AND EXPORT MENU  ")
		m.rule(40)
		fmt.Fprintln(m.out, "1. List ALL records (active and inactive)")
		fmt.Fprintln(m.out, "2. List ACTIVE records only")
		fmt.Fprintln(m.out, "3. Find record by id")
		fmt.Fprintln(m.out, "4. Export ACTIVE records to JSON")
		fmt.Fprintln(m.out, "0. Back to main menu")
		m.rule(40)

		switch m.readLine("Option: ") {
		case "1":
			m.listFlow(ctx, false, "All records")
		case "2":
			m.listFlow(ctx, true, "Active records")
		case "3":
			m.findFlow(ctx)
		case "4":
			m.exportFlow(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
			m.pauseMsg("Press ENTER to try again...")
		}
	}
}

/*──────────────────────────── input helpers ───────────────────────────────*/

// readLine prints prompt and returns one trimmed input line.  After
// EOF it returns "" and marks the session done.
func (m *Menu) readLine(prompt string) string {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		m.eof = true
		fmt.Fprintln(m.out)
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

// readID prompts for a record identifier.  A non-integer answer is a
// validation error, reported inline by the caller.
func (m *Menu) readID(prompt string) (int64, error) {
	raw := m.readLine(prompt)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", record.ErrValidation)
	}
	return id, nil
}

func (m *Menu) pause() {
	m.pauseMsg("Press ENTER to continue...")
}

func (m *Menu) pauseMsg(msg string) {
	fmt.Fprintf(m.out, "\n%s", msg)
	if !m.in.Scan() {
		m.eof = true
	}
	fmt.Fprintln(m.out)
}

// clear wipes the terminal with an ANSI escape; harmless when the
// writer is a buffer.
func (m *Menu) clear() {
	fmt.Fprint(m.out, "\x1b[2J\x1b[H")
}

// rule prints a separator line of the given width.
func (m *Menu) rule(width int) {
	fmt.Fprintln(m.out, strings.Repeat("=", width))
}
