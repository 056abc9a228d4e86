// internal/writer/types.go
package writer

// Message is one publication: the topic and its JSON payload.
type Message struct {
	Topic   string
	Payload []byte
}

// Publisher is the broker contract the writer uses.
// Publish is fire-and-forget; connection lifecycle belongs to the implementation.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Plan is the fully-built publish plan for one device.
type Plan struct {
	Device    string
	TopicRoot string
}
