// internal/poller/assemble.go
package poller

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

var ErrNoRegisters = errors.New("poller: no registers to assemble")

// Assemble partitions registers (in table order) into sequences and folds
// them into groups by name, in first-appearance order.
// A chunk closes on size mismatch, address gap or group change, checked in
// that order, and when maxWords > 0 would be exceeded. Gaps are measured on
// protocol offsets, so 39999 and 40000 are never contiguous.
func Assemble(regs []registers.Register, maxWords int, log zerolog.Logger) ([]Group, error) {
	if len(regs) == 0 {
		return nil, ErrNoRegisters
	}

	var sequences []Sequence

	chunk := []registers.Register{regs[0]}
	words := regs[0].Size
	prev := regs[0]

	for _, reg := range regs[1:] {
		stop := ""
		switch {
		case prev.Size != reg.Size:
			stop = "size differs"
		case Offset(prev.Number)+prev.Size != Offset(reg.Number):
			stop = "not sequential"
		case prev.Group != reg.Group:
			stop = "group differs"
		case maxWords > 0 && words+reg.Size > maxWords:
			stop = "read limit"
		}

		if stop == "" {
			chunk = append(chunk, reg)
			words += reg.Size
		} else {
			log.Debug().Int("register", reg.Number).Str("reason", stop).Msg("sequence closed")
			sequences = append(sequences, Sequence{Registers: chunk})
			chunk = []registers.Register{reg}
			words = reg.Size
		}
		prev = reg
	}
	sequences = append(sequences, Sequence{Registers: chunk})

	var groups []Group
	index := map[string]int{}
	for _, s := range sequences {
		log.Info().
			Int("start", s.Start()).
			Int("end", s.End()).
			Int("words", s.Words()).
			Str("group", s.Name()).
			Msg("register sequence")

		i, ok := index[s.Name()]
		if !ok {
			i = len(groups)
			index[s.Name()] = i
			groups = append(groups, Group{Name: s.Name()})
		}
		groups[i].Sequences = append(groups[i].Sequences, s)
	}

	return groups, nil
}

// ResolveIntervals sets each group's interval: configured override first,
// then the first register's own interval, then def.
func ResolveIntervals(groups []Group, overrides map[string]time.Duration, def time.Duration) {
	for i := range groups {
		g := &groups[i]
		switch {
		case overrides[g.Name] > 0:
			g.Interval = overrides[g.Name]
		case g.Sequences[0].Interval() > 0:
			g.Interval = g.Sequences[0].Interval()
		default:
			g.Interval = def
		}
	}
}
