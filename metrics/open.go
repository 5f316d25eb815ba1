package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
	"github.com/ashleyolson477/fischertechnik-lambda/store"
)

var (
	ErrNoBackends     = errors.New("metrics: no backends configured")
	ErrUnknownBackend = errors.New("metrics: unknown backend")
)

// Open builds the emitter for cfg.Metrics.Backends, connecting whatever the
// backends need. pub is only required by the bus backend and may be nil
// otherwise. The returned close function releases every connection opened
// here.
func Open(ctx context.Context, cfg *config.Config, pub Publisher, logger *log.Logger) (Emitter, func(), error) {
	if logger == nil {
		logger = log.Default()
	}
	ns := cfg.Metrics.Namespace

	var (
		fan     Fanout
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, name := range cfg.Metrics.Backends {
		switch name {
		case config.BackendCloudWatch:
			client, err := NewCloudWatchClient(ctx, cfg.Metrics.CloudWatch)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			fan = append(fan, NewCloudWatch(client, ns))
			logger.Printf("metrics: cloudwatch backend (region=%s, namespace=%s)", cfg.Metrics.CloudWatch.Region, ns)

		case config.BackendSQL:
			db, err := store.Open(&cfg.Database)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("open database: %w", err)
			}
			closers = append(closers, func() { db.Close() })
			fan = append(fan, NewSQL(db, ns))
			logger.Printf("metrics: sql backend (%s)", cfg.Database.Driver)

		case config.BackendRedis:
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Address,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := client.Ping(pingCtx).Err(); err != nil {
				logger.Printf("metrics: redis not available yet (%v)", err)
			}
			cancel()
			closers = append(closers, func() { client.Close() })
			fan = append(fan, NewRedis(client, ns))
			logger.Printf("metrics: redis backend (%s)", cfg.Redis.Address)

		case config.BackendBus:
			if pub == nil {
				closeAll()
				return nil, nil, fmt.Errorf("metrics: bus backend needs a messaging client")
			}
			fan = append(fan, NewBus(pub, cfg.Metrics.BusTopic, ns))
			logger.Printf("metrics: bus backend (topic=%s)", cfg.Metrics.BusTopic)

		case config.BackendLog:
			fan = append(fan, NewLog(logger, ns))

		default:
			closeAll()
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
		}
	}

	switch len(fan) {
	case 0:
		return nil, nil, ErrNoBackends
	case 1:
		return fan[0], closeAll, nil
	default:
		return fan, closeAll, nil
	}
}
