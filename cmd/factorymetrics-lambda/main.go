// Command factorymetrics-lambda runs the message handler as an AWS Lambda
// function. Each invocation event is one factory message.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
	"github.com/ashleyolson477/fischertechnik-lambda/handler"
	"github.com/ashleyolson477/fischertechnik-lambda/metrics"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Built once per container and reused across invocations.
	emitter, closeMetrics, err := metrics.Open(context.Background(), cfg, nil, log.Default())
	if err != nil {
		log.Fatalf("open metrics: %v", err)
	}
	defer closeMetrics()

	h := handler.New(emitter, log.Default())
	lambda.Start(func(ctx context.Context, event json.RawMessage) (handler.Ack, error) {
		return h.HandleRaw(ctx, "", event), nil
	})
}

// loadConfig reads FACTORY_METRICS_CONFIG when set, else starts from the
// defaults. The bus backend is not available without a messaging client.
func loadConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if path := os.Getenv("FACTORY_METRICS_CONFIG"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Messaging.Backend = ""
	return cfg, cfg.Validate()
}
