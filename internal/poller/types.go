// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

// addressBase is the holding register numbering offset ("4xxxx").
const addressBase = 40000

// Sequence is a run of same-size, address-contiguous, same-group registers
// read with one request.
type Sequence struct {
	Registers []registers.Register
}

// Name is the group of the first register.
func (s Sequence) Name() string { return s.Registers[0].Group }

// Interval is the per-register interval of the first register, if any.
func (s Sequence) Interval() time.Duration { return s.Registers[0].Interval }

// Start is the first register number.
func (s Sequence) Start() int { return s.Registers[0].Number }

// End is the last register number.
func (s Sequence) End() int { return s.Registers[len(s.Registers)-1].Number }

// Offset is the zero-based protocol address of the first register.
func (s Sequence) Offset() int { return Offset(s.Start()) }

// Words is the number of words covering the whole sequence.
func (s Sequence) Words() int {
	n := 0
	for _, r := range s.Registers {
		n += r.Size
	}
	return n
}

// Offset translates a register number into a protocol address.
// Numbers at or above 40000 are treated as offset already.
func Offset(number int) int {
	if number >= addressBase {
		return number - addressBase
	}
	return number
}

// Group is the unit of scheduling and publication.
type Group struct {
	Name      string
	Sequences []Sequence
	Interval  time.Duration
}

// PollResult is what one due cycle of a group produced.
type PollResult struct {
	Device string
	Group  string
	At     time.Time // due timestamp of the cycle

	Values []registers.TagValue

	Reads  int   // sequences attempted
	Failed int   // sequences that failed
	Err    error // aggregated read errors, nil when every read succeeded
}
