// internal/writer/writer.go
package writer

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-gateway/internal/poller"
)

// Writer publishes every poll result as one measurement message.
type Writer struct {
	plan Plan
	pub  Publisher
	log  zerolog.Logger
}

func New(plan Plan, pub Publisher, log zerolog.Logger) (*Writer, error) {
	if plan.Device == "" {
		return nil, errors.New("writer: device required")
	}
	if plan.TopicRoot == "" {
		return nil, errors.New("writer: topic root required")
	}
	if pub == nil {
		return nil, errors.New("writer: publisher required")
	}
	return &Writer{plan: plan, pub: pub, log: log}, nil
}

// Write implements poller.Sink. A cycle with no values still publishes
// a message carrying only the time.
func (w *Writer) Write(res poller.PollResult) error {
	msg, err := Format(res.At, w.plan.TopicRoot, w.plan.Device, res.Group, res.Values)
	if err != nil {
		return err
	}

	w.log.Debug().
		Str("topic", msg.Topic).
		RawJSON("payload", msg.Payload).
		Msg("publishing")

	return w.pub.Publish(msg.Topic, msg.Payload)
}
