// internal/registers/types.go
package registers

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the decoding rule of a Register.
type Kind uint8

const (
	Integer Kind = iota + 1
	Decimal
	ValueMap
	BitMask
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case ValueMap:
		return "map"
	case BitMask:
		return "bitmask"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Register is one compiled holding register definition.
// Immutable after compilation.
type Register struct {
	Kind   Kind
	Number int
	Size   int // words
	Group  string

	// Interval is set only when the table carries a per-register interval.
	Interval time.Duration

	// Integer, Decimal, ValueMap.
	Tag         string
	Description string

	Places int             // Decimal
	Map    map[int64]int64 // ValueMap
	Bits   []Bit           // BitMask, in table order
}

// Bit is one bit-mask entry.
type Bit struct {
	Value       int64
	Tag         string
	Description string
}

// TagValue is one decoded value. Value is int64, float64, bool or nil.
type TagValue struct {
	Tag         string
	Description string
	Value       any
}

// SplitTag splits a tag into its two message levels.
func SplitTag(tag string) (l0, l1 string, ok bool) {
	l0, l1, found := strings.Cut(tag, ".")
	if !found || l0 == "" || l1 == "" || strings.Contains(l1, ".") {
		return "", "", false
	}
	return l0, l1, true
}
