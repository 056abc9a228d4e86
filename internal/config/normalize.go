// internal/config/normalize.go
package config

import (
	"github.com/tamzrod/modbus-gateway/internal/registers"
)

const (
	DefaultDevice         = "main"
	DefaultRegistersFile  = "registers.csv"
	DefaultTimeoutMs      = 2000
	DefaultBroker         = "tcp://localhost:1883"
	DefaultClientID       = "modbus-gateway"
	DefaultTopicRoot      = "te"
	DefaultConnectTimeout = 10000
	DefaultIntervalS      = 60
	DefaultWaitMs         = 1000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultMaxWords       = 125 // FC3 limit for one read
	defaultDelimiter      = ","
	defaultQuote          = `"`
)

// Normalize fills unset values with defaults.
// It is allowed to mutate configuration.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}

	r := &cfg.Registers
	if r.File == "" {
		r.File = DefaultRegistersFile
	}
	if r.Delimiter == "" {
		r.Delimiter = defaultDelimiter
	}
	if r.Quote == "" {
		r.Quote = defaultQuote
	}

	m := &cfg.Modbus
	if m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultTimeoutMs
	}
	if m.MaxWords == nil {
		n := DefaultMaxWords
		m.MaxWords = &n
	}

	q := &cfg.MQTT
	if q.Broker == "" {
		q.Broker = DefaultBroker
	}
	if q.ClientID == "" {
		q.ClientID = DefaultClientID + "-" + cfg.Device
	}
	if q.TopicRoot == "" {
		q.TopicRoot = DefaultTopicRoot
	}
	if q.ConnectTimeoutMs == 0 {
		q.ConnectTimeoutMs = DefaultConnectTimeout
	}

	p := &cfg.Poll
	if p.DefaultIntervalS == 0 {
		p.DefaultIntervalS = DefaultIntervalS
	}
	if p.WaitMs == 0 {
		p.WaitMs = DefaultWaitMs
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// Candidates returns the built-in column patterns with configured
// overrides applied per field.
func (c RegistersConfig) Candidates() registers.Candidates {
	out := registers.DefaultCandidates()
	for name, patterns := range c.Columns {
		if len(patterns) > 0 {
			out[registers.Field(name)] = patterns
		}
	}
	return out
}

// DelimiterRune returns the table delimiter. Valid only after Validate.
func (c RegistersConfig) DelimiterRune() rune { return rune(c.Delimiter[0]) }

// QuoteRune returns the table quote character. Valid only after Validate.
func (c RegistersConfig) QuoteRune() rune { return rune(c.Quote[0]) }
