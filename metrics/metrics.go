package metrics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Unit is the unit tag attached to a data point.
type Unit string

const UnitCount Unit = "Count"

// Metric names emitted by the factory handlers.
const (
	OrdersProcessed     = "OrdersProcessed"
	RawMaterialsOrdered = "RawMaterialsOrdered"
	StockSlotsFilled    = "StockSlotsFilled"
	ItemsStored         = "ItemsStored"
)

// DimensionColor tags a point with a piece color.
const DimensionColor = "Color"

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// Dimension is a name/value tag on a data point.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Datum is one data point. A zero Timestamp lets the backend use its
// receive time.
type Datum struct {
	Name       string      `json:"name"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Value      float64     `json:"value"`
	Unit       Unit        `json:"unit"`
	Timestamp  time.Time   `json:"timestamp,omitzero"`
}

// Validate checks the metric name.
func (d Datum) Validate() error {
	if !isMetricNameValid.MatchString(d.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidMetricName, d.Name)
	}
	return nil
}

// String renders the point as Name{K=V,...} value unit.
func (d Datum) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if len(d.Dimensions) > 0 {
		b.WriteByte('{')
		for i, dim := range d.Dimensions {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(dim.Name)
			b.WriteByte('=')
			b.WriteString(dim.Value)
		}
		b.WriteByte('}')
	}
	fmt.Fprintf(&b, " %v", d.Value)
	if d.Unit != "" {
		b.WriteByte(' ')
		b.WriteString(string(d.Unit))
	}
	return b.String()
}

// Emitter submits one data point per call.
type Emitter interface {
	Emit(ctx context.Context, d Datum) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, d Datum) error

func (f EmitterFunc) Emit(ctx context.Context, d Datum) error { return f(ctx, d) }

// Fanout sends each point to every emitter in order. All emitters are tried;
// their errors are joined.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, d Datum) error {
	var errs []error
	for _, e := range f {
		if err := e.Emit(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
