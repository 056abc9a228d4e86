// internal/registers/columns.go
package registers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/table"
)

// Field is a logical column of the register table.
type Field string

const (
	FieldNumber      Field = "number"
	FieldSize        Field = "size"
	FieldType        Field = "type"
	FieldTag         Field = "tag"
	FieldDescription Field = "description"
	FieldValue       Field = "value"
	FieldMin         Field = "min"
	FieldMax         Field = "max"
	FieldGroup       Field = "group"
	FieldDevice      Field = "device"
	FieldUOM         Field = "uom"
	FieldInterval    Field = "interval"
)

// Fields lists every logical column in resolution order.
var Fields = []Field{
	FieldNumber,
	FieldSize,
	FieldType,
	FieldTag,
	FieldDescription,
	FieldValue,
	FieldMin,
	FieldMax,
	FieldGroup,
	FieldDevice,
	FieldUOM,
	FieldInterval,
}

var (
	ErrMissingColumn = errors.New("registers: required column missing")
	ErrNoValueColumn = errors.New("registers: no value column")
)

var (
	requiredFields = []Field{FieldNumber, FieldSize, FieldType, FieldTag}
	valueFields    = []Field{FieldValue, FieldMin, FieldMax}
)

// Candidates is the ordered list of header patterns tried per field.
type Candidates map[Field][]string

// DefaultCandidates returns the built-in header name variants.
func DefaultCandidates() Candidates {
	return Candidates{
		FieldNumber:      {"Number", "Register Number", "Register", "Reg(ister)?[ ._-]*(No|Nr|Number|#)\\.?", "Address"},
		FieldSize:        {"Size", "Register Size", "Length", "Words", "(Register )?(Size|Length).*"},
		FieldType:        {"Type", "Format", "Data ?Type", "Type/Format", "(Type|Format).*"},
		FieldTag:         {"Tag", "Tag ?Name", "Name"},
		FieldDescription: {"Description", "Desc", "English", "Comment", "Description.*"},
		FieldValue:       {"Value", "Values?"},
		FieldMin:         {"Min", "Min Value", "Minimum", "Min.*"},
		FieldMax:         {"Max", "Max Value", "Maximum", "Max.*"},
		FieldGroup:       {"Group", "Tag Group", "Measurement Group", "Group.*"},
		FieldDevice:      {"Device", "Device Name"},
		FieldUOM:         {"UOM", "Unit", "Unit of Measurement", "Units?.*"},
		FieldInterval:    {"Interval", "Sampling Interval", "Interval.*"},
	}
}

// Compile checks that every pattern is a valid regular expression.
func (c Candidates) Compile() (map[Field][]*regexp.Regexp, error) {
	out := make(map[Field][]*regexp.Regexp, len(c))
	for _, f := range Fields {
		for _, p := range c[f] {
			re, err := regexp.Compile(`(?i)^(?:` + p + `)$`)
			if err != nil {
				return nil, fmt.Errorf("registers: %s column pattern %q: %w", f, p, err)
			}
			out[f] = append(out[f], re)
		}
	}
	return out, nil
}

// Columns maps each logical field to its physical column index.
// Absent fields are not in the map.
type Columns map[Field]int

// Index returns the column of f or -1.
func (c Columns) Index(f Field) int {
	if i, ok := c[f]; ok {
		return i
	}
	return -1
}

// Has reports whether f was resolved.
func (c Columns) Has(f Field) bool {
	_, ok := c[f]
	return ok
}

// Cell reads field f of row; absent fields read as "".
func (c Columns) Cell(r table.Row, f Field) string {
	return r.Cell(c.Index(f))
}

// ResolveColumns assigns physical columns to logical fields in priority rounds.
// Round k tries the k-th pattern of each unresolved field; the first header
// cell matching claims the column.
func ResolveColumns(header table.Row, candidates Candidates, log zerolog.Logger) (Columns, error) {
	patterns, err := candidates.Compile()
	if err != nil {
		return nil, err
	}

	rounds := 0
	for _, ps := range patterns {
		if len(ps) > rounds {
			rounds = len(ps)
		}
	}

	cols := Columns{}
	claimed := make(map[int]bool)

	for k := 0; k < rounds; k++ {
		for _, f := range Fields {
			if cols.Has(f) || k >= len(patterns[f]) {
				continue
			}
			re := patterns[f][k]
			for i := range header {
				if claimed[i] {
					continue
				}
				if re.MatchString(header.Cell(i)) {
					log.Debug().
						Str("field", string(f)).
						Str("header", header.Cell(i)).
						Int("column", i).
						Str("pattern", candidates[f][k]).
						Msg("column resolved")
					cols[f] = i
					claimed[i] = true
					break
				}
			}
		}
	}

	for _, f := range Fields {
		if !cols.Has(f) {
			log.Warn().
				Str("field", string(f)).
				Str("patterns", strings.Join(candidates[f], ", ")).
				Msg("column not found")
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if !cols.Has(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	hasValue := false
	for _, f := range valueFields {
		if cols.Has(f) {
			hasValue = true
		}
	}
	if !hasValue {
		return nil, fmt.Errorf("%w: need one of value, min, max", ErrNoValueColumn)
	}

	return cols, nil
}
