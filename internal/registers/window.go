// internal/registers/window.go
package registers

import (
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/table"
)

// Window is a cursor over the table, anchored at one register row.
// Next walks the continuation rows that follow it.
type Window struct {
	tbl    table.Table
	anchor int
	pos    int
	cols   Columns
	log    zerolog.Logger
}

// Anchor returns the register row.
func (w *Window) Anchor() table.Row { return w.tbl.Rows[w.anchor] }

// Cell reads field f of the anchor row.
func (w *Window) Cell(f Field) string { return w.cols.Cell(w.Anchor(), f) }

// Next advances to the next continuation row. It returns false at the next
// row carrying a register number, or at the end of the table.
func (w *Window) Next() (table.Row, bool) {
	next := w.pos + 1
	if next >= len(w.tbl.Rows) {
		return nil, false
	}
	row := w.tbl.Rows[next]
	if w.cols.Cell(row, FieldNumber) != "" {
		return nil, false
	}
	w.pos = next
	return row, true
}

// Line returns the source line of the current row.
func (w *Window) Line() int { return w.tbl.Line(w.pos) }

// Columns returns the resolved column layout.
func (w *Window) Columns() Columns { return w.cols }

// Logger returns the compiler logger.
func (w *Window) Logger() *zerolog.Logger { return &w.log }
