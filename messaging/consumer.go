package messaging

import (
	"context"
	"fmt"
	"log"

	"github.com/ashleyolson477/fischertechnik-lambda/handler"
)

// Subscriber is the part of Client the consumer needs.
type Subscriber interface {
	Subscribe(topic string, handler MessageHandler) error
}

// RawHandler handles one inbound message; *handler.Handler satisfies it.
type RawHandler interface {
	HandleRaw(ctx context.Context, topic string, data []byte) handler.Ack
}

// Consumer subscribes the inbound topics and hands every payload to the
// message handler, tagged with the topic it arrived on.
type Consumer struct {
	sub     Subscriber
	topics  []string
	handler RawHandler
}

func NewConsumer(sub Subscriber, topics []string, h RawHandler) *Consumer {
	return &Consumer{
		sub:     sub,
		topics:  topics,
		handler: h,
	}
}

// Start subscribes every topic. ctx is passed to each handled message.
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.topics) == 0 {
		return fmt.Errorf("consumer: no inbound topics configured")
	}
	for _, topic := range c.topics {
		if err := c.sub.Subscribe(topic, func(t string, payload []byte) {
			c.handler.HandleRaw(ctx, t, payload)
		}); err != nil {
			return fmt.Errorf("consumer: subscribe %s: %w", topic, err)
		}
		log.Printf("consumer: listening on %s", topic)
	}
	return nil
}
