package messaging

import (
	"testing"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
)

func TestClientUnknownBackend(t *testing.T) {
	c := NewClient(&config.MessagingConfig{Backend: "amqp"})
	if err := c.Connect(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if err := c.Publish("factory/metrics", []byte("{}")); err == nil {
		t.Error("expected publish error for unknown backend")
	}
	if c.IsConnected() {
		t.Error("client should not report connected")
	}
	c.Close()
}

func TestClientNotConnected(t *testing.T) {
	for _, backend := range []string{"mqtt", "kafka"} {
		c := NewClient(&config.MessagingConfig{Backend: backend})
		if err := c.Publish("factory/metrics", []byte("{}")); err == nil {
			t.Errorf("%s: expected publish error before connect", backend)
		}
		if err := c.Subscribe("factory/topic", func(string, []byte) {}); err == nil {
			t.Errorf("%s: expected subscribe error before connect", backend)
		}
		if c.IsConnected() {
			t.Errorf("%s: should not be connected", backend)
		}
		c.Close()
	}
}

func TestKafkaConnectNoBrokers(t *testing.T) {
	c := NewClient(&config.MessagingConfig{Backend: "kafka"})
	if err := c.Connect(); err == nil {
		t.Fatal("expected error with no brokers")
	}
}
