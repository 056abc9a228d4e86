// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

// Client abstracts the Modbus operation needed by the poller.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
}

// Sink receives the result of every due cycle.
type Sink interface {
	Write(res PollResult) error
}

// Config is the runtime config the poller needs.
type Config struct {
	Device string
	Groups []Group
	Wait   time.Duration // pause between ticks

	Clock func() time.Time // nil means time.Now
}

// Poller is the acquisition scheduler. It is driven by a single sequential
// tick loop; due holds the only mutable state (next due time per group name).
type Poller struct {
	cfg    Config
	client Client
	sinks  []Sink
	log    zerolog.Logger

	due map[string]time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client, log zerolog.Logger, sinks ...Sink) (*Poller, error) {
	if cfg.Device == "" {
		return nil, errors.New("poller: device required")
	}
	if len(cfg.Groups) == 0 {
		return nil, errors.New("poller: at least one group required")
	}
	if cfg.Wait <= 0 {
		return nil, errors.New("poller: wait must be > 0")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	for _, g := range cfg.Groups {
		if g.Interval <= 0 {
			return nil, fmt.Errorf("poller: group %q: interval must be > 0", g.Name)
		}
		for _, s := range g.Sequences {
			if s.Offset() < 0 || s.Offset()+s.Words()-1 > math.MaxUint16 {
				return nil, fmt.Errorf("poller: group %q: registers %d-%d out of address range", g.Name, s.Start(), s.End())
			}
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Poller{
		cfg:    cfg,
		client: client,
		sinks:  sinks,
		log:    log,
		due:    make(map[string]time.Time, len(cfg.Groups)),
	}, nil
}

// Next returns the first interval boundary strictly after now.
// Boundaries are aligned to the Unix epoch.
func Next(now time.Time, interval time.Duration) time.Time {
	n := now.UnixNano()
	i := int64(interval)
	q := n / i
	if n%i < 0 {
		q--
	}
	return time.Unix(0, (q+1)*i).UTC()
}

// Due returns the next due time of a group. Groups that were never polled
// are due one interval in the past.
func (p *Poller) Due(g Group, now time.Time) time.Time {
	if at, ok := p.due[g.Name]; ok {
		return at
	}
	return Next(now, g.Interval).Add(-g.Interval)
}

// Tick polls every group that is due, in group order.
// It returns the number of groups polled.
func (p *Poller) Tick() int {
	polled := 0

	for _, g := range p.cfg.Groups {
		now := p.cfg.Clock()
		at := p.Due(g, now)
		if now.Before(at) {
			continue
		}

		p.log.Info().Str("group", g.Name).Msg("collecting measurement group")
		res := p.PollGroup(g, at)
		p.deliver(res)
		polled++

		next := Next(p.cfg.Clock(), g.Interval)
		p.due[g.Name] = next
		p.log.Info().Str("group", g.Name).Time("next", next).Msg("next sample")
	}

	return polled
}

// PollGroup reads every sequence of g once. A failed read contributes no
// values and never stops the remaining sequences.
func (p *Poller) PollGroup(g Group, at time.Time) PollResult {
	res := PollResult{
		Device: p.cfg.Device,
		Group:  g.Name,
		At:     at,
	}

	var errs *multierror.Error

	for _, s := range g.Sequences {
		res.Reads++
		values, err := p.readSequence(s)
		if err != nil {
			res.Failed++
			errs = multierror.Append(errs, err)
			p.log.Error().Err(err).Str("group", g.Name).Int("start", s.Start()).Msg("sequence read failed")
			continue
		}
		res.Values = append(res.Values, values...)
	}

	res.Err = errs.ErrorOrNil()
	return res
}

func (p *Poller) readSequence(s Sequence) ([]registers.TagValue, error) {
	offset, words := s.Offset(), s.Words()

	p.log.Debug().
		Int("registers", len(s.Registers)).
		Int("words", words).
		Int("start", s.Start()).
		Int("offset", offset).
		Msg("reading sequence")

	raw, err := p.client.ReadHoldingRegisters(uint16(offset), uint16(words))
	if err != nil {
		return nil, fmt.Errorf("read %d (%d words): %w", s.Start(), words, err)
	}
	if len(raw) < words {
		return nil, fmt.Errorf("read %d: short response: got %d words, want %d", s.Start(), len(raw), words)
	}

	var out []registers.TagValue
	pos := 0
	for _, reg := range s.Registers {
		value := registers.Int(raw[pos : pos+reg.Size])
		pos += reg.Size

		for _, tv := range registers.Decode(reg, value) {
			p.log.Debug().Int("register", reg.Number).Str("tag", tv.Tag).Interface("value", tv.Value).Msg("decoded")
			out = append(out, tv)
		}
	}
	return out, nil
}

func (p *Poller) deliver(res PollResult) {
	for _, s := range p.sinks {
		if err := s.Write(res); err != nil {
			p.log.Error().Err(err).Str("group", res.Group).Msg("delivery failed")
		}
	}
}
