// internal/poller/builder.go
package poller

import (
	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modbus-gateway/internal/config"
	pmodbus "github.com/tamzrod/modbus-gateway/internal/poller/modbus"
)

// Build constructs a Poller and wires the Modbus client lifecycle.
// The initial connection fails fast at startup; afterwards the client
// reconnects on its own on the next request. No retries within a cycle.
func Build(c *cfg.Config, groups []Group, log zerolog.Logger, sinks ...Sink) (*Poller, func() error, error) {
	client, err := pmodbus.New(pmodbus.Config{
		Endpoint:    c.Modbus.Endpoint,
		UnitID:      c.Modbus.UnitID,
		Timeout:     c.Modbus.Timeout(),
		IdleTimeout: c.Modbus.IdleTimeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			Device: c.Device,
			Groups: groups,
			Wait:   c.Poll.Wait(),
		},
		client,
		log,
		sinks...,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}
