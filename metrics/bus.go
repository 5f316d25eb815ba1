package metrics

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher is the messaging surface the bus backend needs.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Bus republishes each point as JSON on a messaging topic.
type Bus struct {
	pub       Publisher
	topic     string
	namespace string
}

// BusPoint is the wire format of a republished point.
type BusPoint struct {
	Namespace string `json:"namespace"`
	Datum
}

func NewBus(pub Publisher, topic, namespace string) *Bus {
	return &Bus{pub: pub, topic: topic, namespace: namespace}
}

func (b *Bus) Emit(_ context.Context, d Datum) error {
	if err := d.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(BusPoint{Namespace: b.namespace, Datum: d})
	if err != nil {
		return fmt.Errorf("encode point %s: %w", d.Name, err)
	}
	if err := b.pub.Publish(b.topic, payload); err != nil {
		return fmt.Errorf("publish %s to %s: %w", d.Name, b.topic, err)
	}
	return nil
}
