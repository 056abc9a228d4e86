// internal/table/table.go
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one line of the register table.
type Row []string

// Cell returns the trimmed content of cell i.
// Missing cells (negative index or short row) read as "".
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Table is a header row plus the data rows below it.
type Table struct {
	Header Row
	Rows   []Row

	lines []int
}

// Line returns the 1-based source line of data row i.
func (t Table) Line(i int) int {
	if i < 0 || i >= len(t.lines) {
		return 0
	}
	return t.lines[i]
}

// Options controls how delimited text is split into rows.
type Options struct {
	Delimiter rune
	Quote     rune
	SkipLines int
}

var ErrEmpty = errors.New("table: no header row")

const utf8BOM = "\ufeff"

// Read parses delimited text. SkipLines physical lines are dropped first;
// the next record is the header.
func Read(r io.Reader, opts Options) (Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	if opts.Quote > 0x7F {
		return Table{}, fmt.Errorf("table: quote %q must be ASCII", opts.Quote)
	}
	if opts.Delimiter == opts.Quote {
		return Table{}, fmt.Errorf("table: delimiter and quote are both %q", opts.Delimiter)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("table: read: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte(utf8BOM))

	// Skipped lines are physical lines, blank ones included.
	for n := 0; n < opts.SkipLines && len(raw) > 0; n++ {
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			raw = nil
			break
		}
		raw = raw[i+1:]
	}

	// encoding/csv only knows '"'. Any other quote byte is swapped with '"'
	// before parsing and swapped back in every cell afterwards.
	quote := byte(opts.Quote)
	swap := quote != '"'
	if swap {
		swapBytes(raw, quote, '"')
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		rows  []Row
		lines []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("table: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if swap {
			for i := range rec {
				rec[i] = swapString(rec[i], quote, '"')
			}
		}
		rows = append(rows, Row(rec))
		lines = append(lines, line+opts.SkipLines)
	}

	if len(rows) == 0 {
		return Table{}, ErrEmpty
	}

	return Table{
		Header: rows[0],
		Rows:   rows[1:],
		lines:  lines[1:],
	}, nil
}

func swapBytes(b []byte, x, y byte) {
	for i, c := range b {
		switch c {
		case x:
			b[i] = y
		case y:
			b[i] = x
		}
	}
}

func swapString(s string, x, y byte) string {
	if strings.IndexByte(s, x) < 0 && strings.IndexByte(s, y) < 0 {
		return s
	}
	b := []byte(s)
	swapBytes(b, x, y)
	return string(b)
}
