package websocket

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/adapter/queue"
)

// Relay forwards queue events onto the websocket hub so connected clients
// can watch dialogue traffic live.
type Relay struct {
	hub *Hub
	log *zap.Logger
}

func NewRelay(hub *Hub, log *zap.Logger) *Relay {
	return &Relay{
		hub: hub,
		log: log,
	}
}

// Start subscribes to the given subjects and rebroadcasts every message.
// A nil queue disables the relay.
func (r *Relay) Start(mq queue.MessageQueue, subjects ...string) error {
	if mq == nil {
		r.log.Info("Event relay disabled, no message queue configured")
		return nil
	}

	for _, subject := range subjects {
		if err := mq.Subscribe(subject, func(data []byte) error {
			r.hub.Broadcast(data)
			return nil
		}); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		r.log.Info("Relaying queue events to websocket clients", zap.String("subject", subject))
	}
	return nil
}
