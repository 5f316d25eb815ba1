package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps one hash per series (metric name plus dimensions) holding the
// last value, running sum and sample count. The set at SeriesSetKey lists
// every series key written.
type Redis struct {
	client    redis.Cmdable
	namespace string
}

func NewRedis(client redis.Cmdable, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

// SeriesKey is the hash key for d, e.g. "FischertechnikFactory:metric:OrdersProcessed:Color=blue".
func SeriesKey(namespace string, d Datum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:metric:%s", namespace, d.Name)
	for _, dim := range d.Dimensions {
		fmt.Fprintf(&b, ":%s=%s", dim.Name, dim.Value)
	}
	return b.String()
}

func SeriesSetKey(namespace string) string {
	return namespace + ":series"
}

func (r *Redis) Emit(ctx context.Context, d Datum) error {
	if err := d.Validate(); err != nil {
		return err
	}
	ts := d.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	key := SeriesKey(r.namespace, d)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "last", d.Value, "unit", string(d.Unit), "updated_at", ts.Format(time.RFC3339Nano))
	pipe.HIncrByFloat(ctx, key, "sum", d.Value)
	pipe.HIncrBy(ctx, key, "samples", 1)
	pipe.SAdd(ctx, SeriesSetKey(r.namespace), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write %s: %w", key, err)
	}
	return nil
}
