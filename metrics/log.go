package metrics

import (
	"context"
	"log"
)

// Log writes each point to a logger instead of a backend.
type Log struct {
	logger    *log.Logger
	namespace string
}

func NewLog(logger *log.Logger, namespace string) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger, namespace: namespace}
}

func (l *Log) Emit(_ context.Context, d Datum) error {
	if err := d.Validate(); err != nil {
		return err
	}
	l.logger.Printf("metrics: %s/%s", l.namespace, d)
	return nil
}
