// internal/config/config.go
package config

type Config struct {
	Device    string          `yaml:"device"`
	Registers RegistersConfig `yaml:"registers"`
	Modbus    ModbusConfig    `yaml:"modbus"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Poll      PollConfig      `yaml:"poll"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ---- REGISTER TABLE ----

type RegistersConfig struct {
	File      string `yaml:"file"` // relative to the config file
	Delimiter string `yaml:"delimiter"`
	Quote     string `yaml:"quote"`
	SkipLines int    `yaml:"skip_lines"`

	// Header patterns per logical column; replaces the built-in list of
	// each field that is set.
	Columns map[string][]string `yaml:"columns"`
}

// ---- SOURCE ----

type ModbusConfig struct {
	Endpoint      string `yaml:"endpoint"`
	UnitID        uint8  `yaml:"unit_id"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	IdleTimeoutMs int    `yaml:"idle_timeout_ms"`

	// Upper bound of words per read request; 0 disables splitting.
	MaxWords *int `yaml:"max_words"`
}

// ---- BROKER ----

type MQTTConfig struct {
	Broker           string `yaml:"broker"`
	ClientID         string `yaml:"client_id"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	TopicRoot        string `yaml:"topic_root"`
	QoS              byte   `yaml:"qos"`
	Retain           bool   `yaml:"retain"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	DefaultIntervalS int                    `yaml:"default_interval_s"`
	WaitMs           int                    `yaml:"wait_ms"`
	Groups           map[string]GroupConfig `yaml:"groups"`
}

type GroupConfig struct {
	IntervalS int `yaml:"interval_s"`
}

// ---- AMBIENT ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}
