// Package broker publishes collected records to a message broker.
package broker

import "context"

// Topics records are published on.
const (
	TopicBuilds = "circle_builds"
	TopicTests  = "circle_tests"
)

// Broker abstracts message publishing.
// This interface supports both in-memory and distributed (Redpanda/Kafka) implementations.
type Broker interface {
	// Publish sends a message to a topic with an optional key for partitioning.
	// For in-memory broker, key is only recorded.
	// For Redpanda/Kafka, key is used for partition assignment.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message represents a published message.
type Message struct {
	Topic string
	Key   string
	Value []byte
}
