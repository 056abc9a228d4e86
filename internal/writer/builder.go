// internal/writer/builder.go
package writer

import (
	"errors"

	cfg "github.com/tamzrod/modbus-gateway/internal/config"
	wmqtt "github.com/tamzrod/modbus-gateway/internal/writer/mqtt"
)

// BuildPlan converts the config into a publish plan.
// Assumes config has already passed validation.
func BuildPlan(c *cfg.Config) (Plan, error) {
	if c.Device == "" {
		return Plan{}, errors.New("writer: device required")
	}
	return Plan{
		Device:    c.Device,
		TopicRoot: c.MQTT.TopicRoot,
	}, nil
}

// BuildPublisher connects the MQTT client described by the config.
// It returns the publisher and its closer.
func BuildPublisher(c *cfg.Config) (*wmqtt.Client, func() error, error) {
	m := c.MQTT
	client, err := wmqtt.New(wmqtt.Config{
		Broker:         m.Broker,
		ClientID:       m.ClientID,
		Username:       m.Username,
		Password:       m.Password,
		QoS:            m.QoS,
		Retain:         m.Retain,
		ConnectTimeout: m.ConnectTimeout(),
	})
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
