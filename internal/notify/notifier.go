// Package notify publishes fire-and-forget domain events. Nothing in the
// selection path waits on delivery; a failed publish is logged and dropped.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Notifier is the outbound event contract. Publish must not block the
// caller on broker errors.
type Notifier interface {
	Publish(topic string, event any)
	Close()
}

// NATSNotifier publishes JSON events to NATS subjects.
type NATSNotifier struct {
	conn *nats.Conn
}

func NewNATSNotifier(url string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSNotifier{conn: conn}, nil
}

func (n *NATSNotifier) Publish(topic string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("event marshal failed", "topic", topic, "error", err)
		return
	}
	if err := n.conn.Publish(topic, data); err != nil {
		slog.Error("event publish failed", "topic", topic, "error", err)
	}
}

func (n *NATSNotifier) Close() {
	n.conn.Close()
}

// NoopNotifier is used when no broker is configured and in tests.
type NoopNotifier struct{}

func (NoopNotifier) Publish(string, any) {}
func (NoopNotifier) Close()              {}
