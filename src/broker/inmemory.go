package broker

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryBroker keeps published messages in memory, per topic, in publish order.
type InMemoryBroker struct {
	mu       sync.RWMutex
	messages map[string][]Message
	closed   bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		messages: make(map[string][]Message),
	}
}

// Publish records a message on a topic.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	b.messages[topic] = append(b.messages[topic], Message{
		Topic: topic,
		Key:   key,
		Value: append([]byte(nil), value...),
	})
	return nil
}

// Messages returns the messages published on a topic.
func (b *InMemoryBroker) Messages(topic string) []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]Message(nil), b.messages[topic]...)
}

// Close marks the broker closed. Later publishes fail.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return nil
}
