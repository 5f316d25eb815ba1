package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text is a string field that also accepts a JSON number or boolean, as
// device firmware is inconsistent about quoting ids and timestamps. null
// decodes to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Quantity is a numeric field that also accepts a quoted number.
type Quantity float64

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var f float64
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("quantity %q: %w", s, err)
		}
		f = v
	} else if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = Quantity(f)
	return nil
}

// SlotContent is the content of one warehouse slot. null, false, 0 and ""
// all mean the slot is empty; any other non-string value is kept as its
// compact JSON text.
type SlotContent string

func (s *SlotContent) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, string(b) == "null", string(b) == "false":
		*s = ""
		return nil
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = SlotContent(v)
		return nil
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		if f == 0 {
			*s = ""
			return nil
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*s = SlotContent(buf.String())
	return nil
}

// Filled reports whether the slot holds anything.
func (s SlotContent) Filled() bool { return s != "" }

// Display returns the content, or "empty" for a free slot.
func (s SlotContent) Display() string {
	if s == "" {
		return "empty"
	}
	return string(s)
}
