// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. Unknown keys are rejected.
// The register table path is resolved relative to the config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if cfg.Registers.File != "" && !filepath.IsAbs(cfg.Registers.File) {
		cfg.Registers.File = filepath.Join(filepath.Dir(path), cfg.Registers.File)
	}
	return cfg, nil
}

// Parse decodes YAML and applies defaults (Normalize).
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	Normalize(&cfg)
	return &cfg, nil
}

// ---- derived values ----

func (c ModbusConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c ModbusConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMs) * time.Millisecond
}

func (c MQTTConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

func (c PollConfig) DefaultInterval() time.Duration {
	return time.Duration(c.DefaultIntervalS) * time.Second
}

func (c PollConfig) Wait() time.Duration {
	return time.Duration(c.WaitMs) * time.Millisecond
}

// GroupIntervals returns the configured per-group intervals.
func (c PollConfig) GroupIntervals() map[string]time.Duration {
	out := make(map[string]time.Duration, len(c.Groups))
	for name, g := range c.Groups {
		out[name] = time.Duration(g.IntervalS) * time.Second
	}
	return out
}
