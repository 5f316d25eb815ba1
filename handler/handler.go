// Package handler turns factory messages into log lines and metric data
// points. Handler is safe for concurrent use: it holds no mutable state, so
// one instance built at startup serves every invocation.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ashleyolson477/fischertechnik-lambda/metrics"
	"github.com/ashleyolson477/fischertechnik-lambda/protocol"
)

// Ack is returned for every message, whatever happened while handling it,
// so the delivering service never retries or dead-letters.
type Ack struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body,omitempty"`
}

type ackBody struct {
	Message string `json:"message"`
}

func newAck(kind string) Ack {
	body, _ := json.Marshal(ackBody{Message: fmt.Sprintf("Event of type '%s' processed successfully.", kind)})
	return Ack{StatusCode: 200, Body: string(body)}
}

type Handler struct {
	emitter metrics.Emitter
	log     *log.Logger
}

// New creates a handler that sends metrics to emitter. A nil logger uses
// the standard logger; a nil emitter logs points instead of sending them.
func New(emitter metrics.Emitter, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	if emitter == nil {
		emitter = metrics.NewLog(logger, "")
	}
	return &Handler{emitter: emitter, log: logger}
}

// HandleRaw is the entry point for one message as delivered on topic (which
// may be empty). Decode errors, metric failures and panics are logged and
// swallowed.
func (h *Handler) HandleRaw(ctx context.Context, topic string, data []byte) Ack {
	id := uuid.NewString()
	if topic != "" {
		h.log.Printf("handler: [%s] message received on %s: %s", id, topic, data)
	} else {
		h.log.Printf("handler: [%s] message received: %s", id, data)
	}

	kind, err := h.process(ctx, topic, data)
	if err != nil {
		h.log.Printf("handler: [%s] error: %v", id, err)
	}
	return newAck(kind)
}

func (h *Handler) process(ctx context.Context, topic string, data []byte) (kind string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	msg, err := protocol.DecodeFromTopic(topic, data)
	if err != nil {
		return "", err
	}
	kind = msg.Kind()
	return kind, h.Route(ctx, msg)
}

// Route dispatches msg to its handler. Unknown messages are logged and
// dropped; errors from metric submission are returned to the caller.
func (h *Handler) Route(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case *protocol.DashboardOrder:
		return h.handleDashboardOrder(ctx, m)
	case *protocol.RawMaterialOrder:
		return h.handleRawMaterialOrder(ctx, m)
	case *protocol.FactoryStatus:
		h.handleFactoryStatus(m)
		return nil
	case *protocol.Stock:
		return h.handleStock(ctx, m)
	case *protocol.NFCReader:
		h.handleNFCReader(m)
		return nil
	case *protocol.ItemStored:
		return h.handleItemStored(ctx, m)
	case *protocol.Unrecognized:
		h.log.Printf("handler: Unknown message type: %s", m.Type)
		return nil
	case nil:
		h.log.Printf("handler: Unknown message type: <nil>")
		return nil
	default:
		h.log.Printf("handler: Unknown message type: %s", msg.Kind())
		return nil
	}
}

func (h *Handler) handleDashboardOrder(ctx context.Context, m *protocol.DashboardOrder) error {
	h.log.Printf("handler: [Order] ID=%s, State=%s, Color=%s", m.OrderID, m.State, m.Color)
	return h.emit(ctx, metrics.OrdersProcessed, 1, color(m.Color))
}

func (h *Handler) handleRawMaterialOrder(ctx context.Context, m *protocol.RawMaterialOrder) error {
	h.log.Printf("handler: RawMaterialOrder - color: %s, quantity: %v", m.Color, float64(m.Quantity))
	return h.emit(ctx, metrics.RawMaterialsOrdered, float64(m.Quantity), color(m.Color))
}

func (h *Handler) handleFactoryStatus(m *protocol.FactoryStatus) {
	h.log.Printf("handler: Active Stations: %s", strings.Join(m.ActiveStations, ", "))
	for _, piece := range slices.Sorted(maps.Keys(m.PieceLocations)) {
		h.log.Printf("handler: Piece '%s' is currently at '%s'.", piece, m.PieceLocations[piece])
	}
}

func (h *Handler) handleStock(ctx context.Context, m *protocol.Stock) error {
	h.log.Printf("handler: High-Bay Warehouse Layout:")
	filled := 0
	for _, slot := range slices.Sorted(maps.Keys(m.Layout)) {
		content := m.Layout[slot]
		h.log.Printf("handler: Slot %s: %s", strings.ToUpper(slot), content.Display())
		if content.Filled() {
			filled++
		}
	}
	return h.emit(ctx, metrics.StockSlotsFilled, float64(filled))
}

func (h *Handler) handleNFCReader(m *protocol.NFCReader) {
	h.log.Printf("handler: NFC Read @ %s: Piece '%s' is '%s'.", m.Timestamp, m.PieceID, m.State)
}

func (h *Handler) handleItemStored(ctx context.Context, m *protocol.ItemStored) error {
	if m.Status != protocol.StatusStored {
		return nil
	}
	return h.emit(ctx, metrics.ItemsStored, 1, color(m.Color))
}

func (h *Handler) emit(ctx context.Context, name string, value float64, dims ...metrics.Dimension) error {
	d := metrics.Datum{
		Name:       name,
		Dimensions: dims,
		Value:      value,
		Unit:       metrics.UnitCount,
	}
	if err := h.emitter.Emit(ctx, d); err != nil {
		return fmt.Errorf("metric %s: %w", name, err)
	}
	h.log.Printf("handler: metric sent: %s", d)
	return nil
}

func color(c protocol.Text) metrics.Dimension {
	return metrics.Dimension{Name: metrics.DimensionColor, Value: string(c)}
}
