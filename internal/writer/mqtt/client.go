// internal/writer/mqtt/client.go
package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// disconnectQuiesce is how long Close lets in-flight work finish (ms).
const disconnectQuiesce = 250

// Client is one broker connection. Reconnects are handled by paho.
type Client struct {
	client paho.Client
	qos    byte
	retain bool
}

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string

	QoS    byte
	Retain bool

	ConnectTimeout time.Duration
}

// New connects to the broker. The first connection fails fast; later
// drops are recovered by auto-reconnect.
func New(cfg Config) (*Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("writer mqtt: broker required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("writer mqtt: client id required")
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("writer mqtt: qos %d out of range", cfg.QoS)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetOrderMatters(false)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	mc := paho.NewClient(opts)
	if tok := mc.Connect(); !tok.WaitTimeout(cfg.ConnectTimeout) || tok.Error() != nil {
		mc.Disconnect(0)
		if err := tok.Error(); err != nil {
			return nil, fmt.Errorf("writer mqtt: connect %s: %w", cfg.Broker, err)
		}
		return nil, fmt.Errorf("writer mqtt: connect %s: timeout after %s", cfg.Broker, cfg.ConnectTimeout)
	}

	return newClient(mc, cfg.QoS, cfg.Retain), nil
}

func newClient(mc paho.Client, qos byte, retain bool) *Client {
	return &Client{client: mc, qos: qos, retain: retain}
}

func (c *Client) Close() error {
	c.client.Disconnect(disconnectQuiesce)
	return nil
}

// Publish hands the payload to paho without waiting for delivery.
// Only an error paho reports synchronously is returned.
func (c *Client) Publish(topic string, payload []byte) error {
	tok := c.client.Publish(topic, c.qos, c.retain, payload)

	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			return fmt.Errorf("writer mqtt: publish %s: %w", topic, err)
		}
	default:
	}
	return nil
}
