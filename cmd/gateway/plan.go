// cmd/gateway/plan.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/config"
	"github.com/tamzrod/modbus-gateway/internal/poller"
	"github.com/tamzrod/modbus-gateway/internal/registers"
	"github.com/tamzrod/modbus-gateway/internal/table"
)

// compile reads the register table and turns it into scheduled groups.
func compile(cfg *config.Config, log zerolog.Logger) ([]poller.Group, error) {
	f, err := os.Open(cfg.Registers.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := table.Read(f, table.Options{
		Delimiter: cfg.Registers.DelimiterRune(),
		Quote:     cfg.Registers.QuoteRune(),
		SkipLines: cfg.Registers.SkipLines,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Registers.File, err)
	}

	regs, err := registers.Load(tbl, cfg.Registers.Candidates(), component(log, "registers"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Registers.File, err)
	}

	groups, err := poller.Assemble(regs, *cfg.Modbus.MaxWords, component(log, "assembler"))
	if err != nil {
		return nil, err
	}
	poller.ResolveIntervals(groups, cfg.Poll.GroupIntervals(), cfg.Poll.DefaultInterval())

	for _, g := range groups {
		log.Info().
			Str("group", g.Name).
			Dur("interval", g.Interval).
			Int("sequences", len(g.Sequences)).
			Msg("measurement group")
	}
	return groups, nil
}

// printPlan writes one line per group and one indented line per sequence.
func printPlan(w io.Writer, device string, groups []poller.Group) error {
	if _, err := fmt.Fprintf(w, "device %s: %d groups\n", device, len(groups)); err != nil {
		return err
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "group %s every %s (%d reads)\n", g.Name, g.Interval, len(g.Sequences)); err != nil {
			return err
		}
		for _, s := range g.Sequences {
			if _, err := fmt.Fprintf(w, "  %d-%d offset=%d words=%d registers=%d\n",
				s.Start(), s.End(), s.Offset(), s.Words(), len(s.Registers)); err != nil {
				return err
			}
		}
	}
	return nil
}
