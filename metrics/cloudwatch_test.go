package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCloudWatchEmit(t *testing.T) {
	api := &mockCloudWatch{}
	cw := NewCloudWatch(api, "FischertechnikFactory")

	err := cw.Emit(context.Background(), Datum{
		Name:       RawMaterialsOrdered,
		Dimensions: []Dimension{{DimensionColor, "red"}},
		Value:      5,
		Unit:       UnitCount,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(api.inputs) != 1 {
		t.Fatalf("PutMetricData called %d times, want 1", len(api.inputs))
	}
	in := api.inputs[0]
	if aws.ToString(in.Namespace) != "FischertechnikFactory" {
		t.Errorf("namespace = %q", aws.ToString(in.Namespace))
	}
	if len(in.MetricData) != 1 {
		t.Fatalf("metric data = %d entries, want 1", len(in.MetricData))
	}
	md := in.MetricData[0]
	if aws.ToString(md.MetricName) != RawMaterialsOrdered {
		t.Errorf("metric name = %q", aws.ToString(md.MetricName))
	}
	if aws.ToFloat64(md.Value) != 5 {
		t.Errorf("value = %v, want 5", aws.ToFloat64(md.Value))
	}
	if md.Unit != types.StandardUnitCount {
		t.Errorf("unit = %q, want Count", md.Unit)
	}
	if md.Timestamp != nil {
		t.Errorf("timestamp = %v, want nil for zero time", md.Timestamp)
	}
	if len(md.Dimensions) != 1 || aws.ToString(md.Dimensions[0].Name) != "Color" || aws.ToString(md.Dimensions[0].Value) != "red" {
		t.Errorf("dimensions = %+v", md.Dimensions)
	}
}

func TestCloudWatchEmitNoDimensions(t *testing.T) {
	api := &mockCloudWatch{}
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := NewCloudWatch(api, "ns").Emit(context.Background(), Datum{Name: StockSlotsFilled, Value: 2, Unit: UnitCount, Timestamp: at}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	md := api.inputs[0].MetricData[0]
	if md.Dimensions != nil {
		t.Errorf("dimensions = %+v, want none", md.Dimensions)
	}
	if md.Timestamp == nil || !md.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", md.Timestamp, at)
	}
}

func TestCloudWatchEmitError(t *testing.T) {
	throttled := errors.New("Throttling: rate exceeded")
	api := &mockCloudWatch{err: throttled}
	err := NewCloudWatch(api, "ns").Emit(context.Background(), Datum{Name: OrdersProcessed, Value: 1})
	if !errors.Is(err, throttled) {
		t.Errorf("err = %v, want wrapped throttling error", err)
	}
}

func TestCloudWatchRejectsInvalidName(t *testing.T) {
	api := &mockCloudWatch{}
	if err := NewCloudWatch(api, "ns").Emit(context.Background(), Datum{Name: "no spaces allowed"}); !errors.Is(err, ErrInvalidMetricName) {
		t.Errorf("err = %v, want ErrInvalidMetricName", err)
	}
	if len(api.inputs) != 0 {
		t.Error("invalid datum should not reach the API")
	}
}
