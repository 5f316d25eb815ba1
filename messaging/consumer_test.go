package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/ashleyolson477/fischertechnik-lambda/handler"
)

type mockSubscriber struct {
	handlers map[string]MessageHandler
	failOn   string
}

func (m *mockSubscriber) Subscribe(topic string, h MessageHandler) error {
	if topic == m.failOn {
		return errors.New("not authorized")
	}
	if m.handlers == nil {
		m.handlers = make(map[string]MessageHandler)
	}
	m.handlers[topic] = h
	return nil
}

type received struct {
	topic string
	data  string
}

type mockRawHandler struct {
	got []received
}

func (m *mockRawHandler) HandleRaw(_ context.Context, topic string, data []byte) handler.Ack {
	m.got = append(m.got, received{topic, string(data)})
	return handler.Ack{StatusCode: 200}
}

func TestConsumerRoutesPayloadsWithTopic(t *testing.T) {
	sub := &mockSubscriber{}
	h := &mockRawHandler{}
	c := NewConsumer(sub, []string{"factory/topic", "warehouse/stock"}, h)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(sub.handlers) != 2 {
		t.Fatalf("subscribed %d topics, want 2", len(sub.handlers))
	}

	// MQTT delivers the concrete topic, which may differ from a wildcard filter.
	sub.handlers["warehouse/stock"]("warehouse/stock", []byte(`{"layout":{}}`))
	sub.handlers["factory/topic"]("factory/topic", []byte(`{"type":"nfcReader"}`))

	want := []received{
		{"warehouse/stock", `{"layout":{}}`},
		{"factory/topic", `{"type":"nfcReader"}`},
	}
	if len(h.got) != len(want) {
		t.Fatalf("handled %d messages, want %d", len(h.got), len(want))
	}
	for i := range want {
		if h.got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, h.got[i], want[i])
		}
	}
}

func TestConsumerSubscribeError(t *testing.T) {
	c := NewConsumer(&mockSubscriber{failOn: "nfc/reader"}, []string{"dashboard/order", "nfc/reader"}, &mockRawHandler{})
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected subscribe error")
	}
}

func TestConsumerNoTopics(t *testing.T) {
	if err := NewConsumer(&mockSubscriber{}, nil, &mockRawHandler{}).Start(context.Background()); err == nil {
		t.Fatal("expected error with no topics")
	}
}
