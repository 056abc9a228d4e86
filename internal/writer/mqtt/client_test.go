// internal/writer/mqtt/client_test.go
package mqtt

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newToken(complete bool, err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// fakeClient implements only what Client uses; other paho methods panic.
type fakeClient struct {
	paho.Client

	tok          paho.Token
	calls        []published
	disconnected bool
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.calls = append(f.calls, published{topic, qos, retained, payload.([]byte)})
	return f.tok
}

func (f *fakeClient) Disconnect(uint) { f.disconnected = true }

// ---- tests ----

func TestPublish_UsesConfiguredQoSAndRetain(t *testing.T) {
	fc := &fakeClient{tok: newToken(false, nil)}
	c := newClient(fc, 1, true)

	if err := c.Publish("te/device/main///m/g", []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fc.calls) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(fc.calls))
	}
	got := fc.calls[0]
	if got.topic != "te/device/main///m/g" || got.qos != 1 || !got.retain || string(got.payload) != "{}" {
		t.Fatalf("unexpected publish: %+v", got)
	}
}

func TestPublish_PendingTokenIsNotAwaited(t *testing.T) {
	fc := &fakeClient{tok: newToken(false, errors.New("late"))}
	c := newClient(fc, 0, false)

	if err := c.Publish("t", nil); err != nil {
		t.Fatalf("expected nil for pending token, got %v", err)
	}
}

func TestPublish_ImmediateErrorReturned(t *testing.T) {
	fc := &fakeClient{tok: newToken(true, errors.New("not connected"))}
	c := newClient(fc, 0, false)

	if err := c.Publish("t", nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestClose_Disconnects(t *testing.T) {
	fc := &fakeClient{}
	c := newClient(fc, 0, false)

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fc.disconnected {
		t.Fatalf("expected disconnect")
	}
}

func TestNew_ConfigErrors(t *testing.T) {
	cases := []Config{
		{ClientID: "x"},
		{Broker: "tcp://localhost:1883"},
		{Broker: "tcp://localhost:1883", ClientID: "x", QoS: 3},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Fatalf("config %+v: expected error, got nil", cfg)
		}
	}
}
