package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned for a blank payload.
var ErrEmptyMessage = errors.New("protocol: empty message")

// RawHeader is the minimal decode used to pick a variant before the full
// decode. Its fields stay raw so that an unexpected JSON type in any of them
// never rejects the message. Topic and Payload are only present on wrapped
// messages.
type RawHeader struct {
	Type    json.RawMessage `json:"type"`
	Status  json.RawMessage `json:"status"`
	Topic   json.RawMessage `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses one message received without topic information.
func Decode(data []byte) (Message, error) {
	return DecodeFromTopic("", data)
}

// DecodeFromTopic performs a two-phase decode of a message delivered on
// topic. Phase one reads the RawHeader; an untyped message with an object
// "payload" is unwrapped and decoded in its place. The discriminant is the
// "type" field, else the topic, else the legacy "status" field. Phase two
// decodes the selected variant and applies its defaults.
//
// An unknown discriminant is not an error: it yields *Unrecognized. A
// non-string "type" is unknown too, named by its JSON text.
func DecodeFromTopic(topic string, data []byte) (Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	var hdr RawHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("protocol: header decode: %w", err)
	}
	if t, ok := stringField(hdr.Topic); ok && t != "" && topic == "" {
		topic = t
	}

	kind, ok := stringField(hdr.Type)
	if !ok && !isNull(hdr.Type) {
		return &Unrecognized{Type: compact(hdr.Type)}, nil
	}
	if kind == "" && isObject(hdr.Payload) {
		return DecodeFromTopic(topic, hdr.Payload)
	}

	var msg Message
	switch {
	case kind != "":
		msg = newVariant(kind)
	case topicKind(topic) != "":
		msg = newVariant(topicKind(topic))
	default:
		if _, ok := stringField(hdr.Status); ok {
			msg = &ItemStored{}
		}
	}
	if msg == nil {
		return &Unrecognized{Type: kind}, nil
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", msg.Kind(), err)
	}
	msg.applyDefaults()
	return msg, nil
}

// newVariant returns an empty message for one of the five "type"
// discriminants, or nil. The legacy variant has no "type" of its own.
func newVariant(kind string) Message {
	switch kind {
	case TypeDashboardOrder:
		return &DashboardOrder{}
	case TypeRawMaterialOrder:
		return &RawMaterialOrder{}
	case TypeFactoryStatus:
		return &FactoryStatus{}
	case TypeStock:
		return &Stock{}
	case TypeNFCReader:
		return &NFCReader{}
	default:
		return nil
	}
}

func topicKind(topic string) string {
	t, _ := TypeForTopic(topic)
	return t
}

// stringField reports the value of a raw field when it is a JSON string.
func stringField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// isNull reports an absent or null raw field.
func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
