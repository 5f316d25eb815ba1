package metrics

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockRedis records the commands queued on its transaction pipelines. Only
// the methods Redis.Emit uses are implemented.
type mockRedis struct {
	redis.Cmdable
	cmds    []string
	execs   int
	execErr error
}

func (m *mockRedis) TxPipeline() redis.Pipeliner {
	return &mockPipe{parent: m}
}

type mockPipe struct {
	redis.Pipeliner
	parent *mockRedis
	queued []string
}

func (p *mockPipe) record(args ...any) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	p.queued = append(p.queued, strings.Join(parts, " "))
}

func (p *mockPipe) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	p.record(append([]any{"HSET", key}, values...)...)
	return redis.NewIntCmd(ctx)
}

func (p *mockPipe) HIncrByFloat(ctx context.Context, key, field string, incr float64) *redis.FloatCmd {
	p.record("HINCRBYFLOAT", key, field, incr)
	return redis.NewFloatCmd(ctx)
}

func (p *mockPipe) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	p.record("HINCRBY", key, field, incr)
	return redis.NewIntCmd(ctx)
}

func (p *mockPipe) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	p.record(append([]any{"SADD", key}, members...)...)
	return redis.NewIntCmd(ctx)
}

func (p *mockPipe) Exec(_ context.Context) ([]redis.Cmder, error) {
	p.parent.execs++
	if p.parent.execErr != nil {
		return nil, p.parent.execErr
	}
	p.parent.cmds = append(p.parent.cmds, p.queued...)
	return nil, nil
}

func TestSeriesKey(t *testing.T) {
	tests := []struct {
		d    Datum
		want string
	}{
		{Datum{Name: OrdersProcessed, Dimensions: []Dimension{{DimensionColor, "blue"}}}, "ns:metric:OrdersProcessed:Color=blue"},
		{Datum{Name: StockSlotsFilled}, "ns:metric:StockSlotsFilled"},
	}
	for _, tt := range tests {
		if got := SeriesKey("ns", tt.d); got != tt.want {
			t.Errorf("SeriesKey(%s) = %q, want %q", tt.d.Name, got, tt.want)
		}
	}
	if got := SeriesSetKey("ns"); got != "ns:series" {
		t.Errorf("SeriesSetKey = %q", got)
	}
}

func TestRedisEmit(t *testing.T) {
	client := &mockRedis{}
	r := NewRedis(client, "ns")
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	err := r.Emit(context.Background(), Datum{
		Name:       OrdersProcessed,
		Dimensions: []Dimension{{DimensionColor, "blue"}},
		Value:      1,
		Unit:       UnitCount,
		Timestamp:  at,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if client.execs != 1 {
		t.Errorf("execs = %d, want 1 transaction", client.execs)
	}

	key := "ns:metric:OrdersProcessed:Color=blue"
	want := []string{
		"HSET " + key + " last 1 unit Count updated_at 2026-03-01T12:30:00Z",
		"HINCRBYFLOAT " + key + " sum 1",
		"HINCRBY " + key + " samples 1",
		"SADD ns:series " + key,
	}
	if !reflect.DeepEqual(client.cmds, want) {
		t.Errorf("commands =\n%s\nwant\n%s", strings.Join(client.cmds, "\n"), strings.Join(want, "\n"))
	}
}

func TestRedisEmitStampsMissingTimestamp(t *testing.T) {
	client := &mockRedis{}
	if err := NewRedis(client, "ns").Emit(context.Background(), Datum{Name: StockSlotsFilled, Value: 2, Unit: UnitCount}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(client.cmds) == 0 || strings.Contains(client.cmds[0], "0001-01-01") {
		t.Errorf("commands = %v, want a current updated_at", client.cmds)
	}
}

func TestRedisEmitErrors(t *testing.T) {
	client := &mockRedis{execErr: errors.New("connection refused")}
	err := NewRedis(client, "ns").Emit(context.Background(), Datum{Name: ItemsStored, Value: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, client.execErr) || !strings.Contains(err.Error(), "redis write ns:metric:ItemsStored") {
		t.Errorf("err = %v", err)
	}

	client = &mockRedis{}
	err = NewRedis(client, "ns").Emit(context.Background(), Datum{Name: "bad name"})
	if !errors.Is(err, ErrInvalidMetricName) {
		t.Errorf("err = %v, want ErrInvalidMetricName", err)
	}
	if client.execs != 0 {
		t.Errorf("execs = %d, want none for an invalid name", client.execs)
	}
}
