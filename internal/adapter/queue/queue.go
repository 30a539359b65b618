package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Supported backends.
const (
	BackendNATS     = "nats"
	BackendRabbitMQ = "rabbitmq"
	BackendNone     = "none"
)

// New builds the queue adapter named by backend. BackendNone returns a nil
// queue; publishers treat that as "events disabled".
func New(backend, url string, log *zap.Logger) (MessageQueue, error) {
	switch backend {
	case BackendNATS:
		return NewNATSQueue(url, log)
	case BackendRabbitMQ:
		return NewRabbitMQQueue(url, log)
	case BackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown queue backend: %q", backend)
	}
}
