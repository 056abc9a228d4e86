// internal/config/validate.go
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

// Validate checks configuration correctness and reports every problem found.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	var errs *multierror.Error

	fail := func(format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf(format, args...))
	}

	// ------------------------------------------------------------
	// IDENTITY
	// ------------------------------------------------------------

	if cfg.Device == "" {
		fail("device must not be empty")
	}
	if strings.ContainsAny(cfg.Device, "/+#") {
		fail("device %q must not contain MQTT topic characters", cfg.Device)
	}

	// ------------------------------------------------------------
	// REGISTER TABLE
	// ------------------------------------------------------------

	r := cfg.Registers
	if r.File == "" {
		fail("registers.file must not be empty")
	}
	if !singleASCII(r.Delimiter) || strings.ContainsAny(r.Delimiter, "\"\r\n") {
		fail("registers.delimiter %q must be one ASCII character other than quote or newline", r.Delimiter)
	}
	if !singleASCII(r.Quote) || strings.ContainsAny(r.Quote, "\r\n") {
		fail("registers.quote %q must be one ASCII character", r.Quote)
	}
	if r.Delimiter == r.Quote {
		fail("registers.delimiter and registers.quote must differ")
	}
	if r.SkipLines < 0 {
		fail("registers.skip_lines must be >= 0")
	}

	known := make(map[string]bool, len(registers.Fields))
	for _, f := range registers.Fields {
		known[string(f)] = true
	}
	names := make([]string, 0, len(r.Columns))
	for name := range r.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			fail("registers.columns: unknown column %q", name)
		}
	}
	if _, err := r.Candidates().Compile(); err != nil {
		fail("registers.columns: %v", err)
	}

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	m := cfg.Modbus
	if m.Endpoint == "" {
		fail("modbus.endpoint must not be empty")
	}
	if m.TimeoutMs < 0 || m.IdleTimeoutMs < 0 {
		fail("modbus timeouts must be >= 0")
	}
	if m.MaxWords != nil && (*m.MaxWords < 0 || *m.MaxWords > DefaultMaxWords) {
		fail("modbus.max_words %d out of range 0..%d", *m.MaxWords, DefaultMaxWords)
	}

	// ------------------------------------------------------------
	// BROKER
	// ------------------------------------------------------------

	q := cfg.MQTT
	if q.Broker == "" {
		fail("mqtt.broker must not be empty")
	}
	if q.QoS > 2 {
		fail("mqtt.qos %d out of range 0..2", q.QoS)
	}
	if q.ConnectTimeoutMs < 0 {
		fail("mqtt.connect_timeout_ms must be >= 0")
	}
	if strings.ContainsAny(q.TopicRoot, "+#") {
		fail("mqtt.topic_root %q must not contain wildcards", q.TopicRoot)
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	p := cfg.Poll
	if p.DefaultIntervalS <= 0 {
		fail("poll.default_interval_s must be > 0")
	}
	if p.WaitMs <= 0 {
		fail("poll.wait_ms must be > 0")
	}
	groups := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	for _, name := range groups {
		if p.Groups[name].IntervalS <= 0 {
			fail("poll.groups.%s.interval_s must be > 0", name)
		}
	}

	// ------------------------------------------------------------
	// AMBIENT
	// ------------------------------------------------------------

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		fail("logging.level: %v", err)
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		fail("logging.format %q must be console or json", cfg.Logging.Format)
	}

	return errs.ErrorOrNil()
}

func singleASCII(s string) bool {
	return len(s) == 1 && s[0] <= 0x7F
}
