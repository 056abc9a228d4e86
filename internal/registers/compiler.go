// internal/registers/compiler.go
package registers

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/table"
)

var ErrBadCell = errors.New("registers: malformed cell")

// Builder compiles the register anchored at w.
// Multi-row builders consume continuation rows through w.Next.
type Builder func(w *Window) (Register, error)

type entry struct {
	pattern *regexp.Regexp
	build   Builder
}

// Compiler dispatches table rows to builders by type pattern.
// Patterns are tried in registration order.
type Compiler struct {
	entries []entry
	log     zerolog.Logger
}

// NewCompiler returns a compiler with the default INT, DEC, BIT and MAP builders.
func NewCompiler(log zerolog.Logger) *Compiler {
	c := &Compiler{log: log}
	c.mustRegister(`INT.*`, buildInteger)
	c.mustRegister(`DEC.*`, buildDecimal)
	c.mustRegister(`BIT.*`, buildBitMask)
	c.mustRegister(`MAP.*`, buildValueMap)
	return c
}

// Register adds a builder for type cells matching pattern (anchored at the start).
func (c *Compiler) Register(pattern string, b Builder) error {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return fmt.Errorf("registers: type pattern %q: %w", pattern, err)
	}
	c.entries = append(c.entries, entry{pattern: re, build: b})
	return nil
}

func (c *Compiler) mustRegister(pattern string, b Builder) {
	if err := c.Register(pattern, b); err != nil {
		panic(err)
	}
}

// Compile turns the data rows into registers, in row order.
func (c *Compiler) Compile(tbl table.Table, cols Columns) ([]Register, error) {
	var out []Register

	for i, row := range tbl.Rows {
		line := tbl.Line(i)
		number := cols.Cell(row, FieldNumber)

		if number == "" {
			c.log.Debug().Int("line", line).Msg("row skipped (no register number)")
			continue
		}

		if cols.Cell(row, FieldTag) == "" {
			c.log.Warn().
				Int("line", line).
				Str("register", number).
				Str("description", cols.Cell(row, FieldDescription)).
				Msg("register skipped (no tag)")
			continue
		}

		typ := cols.Cell(row, FieldType)
		b := c.lookup(typ)
		if b == nil {
			c.log.Warn().
				Int("line", line).
				Str("register", number).
				Str("type", typ).
				Msg("register skipped (unknown type)")
			continue
		}

		w := &Window{tbl: tbl, anchor: i, pos: i, cols: cols, log: c.log}
		reg, err := b(w)
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		c.logRegister(reg)
		out = append(out, reg)
	}

	return out, nil
}

func (c *Compiler) lookup(typ string) Builder {
	for _, e := range c.entries {
		if e.pattern.MatchString(typ) {
			return e.build
		}
	}
	return nil
}

func (c *Compiler) logRegister(reg Register) {
	if reg.Kind == BitMask {
		c.log.Info().Int("register", reg.Number).Stringer("kind", reg.Kind).Msg("register compiled")
		for _, b := range reg.Bits {
			c.log.Info().
				Int("register", reg.Number).
				Int64("bit", b.Value).
				Str("tag", b.Tag).
				Str("description", b.Description).
				Msg("bit mapped")
		}
		return
	}
	c.log.Info().
		Int("register", reg.Number).
		Stringer("kind", reg.Kind).
		Str("tag", reg.Tag).
		Str("description", reg.Description).
		Msg("register compiled")
}

// Load resolves the table columns and compiles all registers.
func Load(tbl table.Table, candidates Candidates, log zerolog.Logger) ([]Register, error) {
	cols, err := ResolveColumns(tbl.Header, candidates, log)
	if err != nil {
		return nil, err
	}
	return NewCompiler(log).Compile(tbl, cols)
}
