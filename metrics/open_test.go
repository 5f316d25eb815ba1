package metrics

import (
	"bytes"
	"context"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
)

func TestOpenSQLAndLog(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Backends = []string{config.BackendSQL, config.BackendLog}
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "open.db")

	var buf bytes.Buffer
	em, closeFn, err := Open(context.Background(), cfg, nil, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	fan, ok := em.(Fanout)
	if !ok || len(fan) != 2 {
		t.Fatalf("emitter = %T, want Fanout of 2", em)
	}
	if err := em.Emit(context.Background(), Datum{Name: ItemsStored, Value: 1, Unit: UnitCount}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("ItemsStored 1 Count")) {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestOpenSingleBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Backends = []string{config.BackendLog}
	em, closeFn, err := Open(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if _, ok := em.(*Log); !ok {
		t.Errorf("emitter = %T, want *Log", em)
	}
}

func TestOpenErrors(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Backends = nil
	if _, _, err := Open(context.Background(), cfg, nil, nil); !errors.Is(err, ErrNoBackends) {
		t.Errorf("no backends: err = %v", err)
	}

	cfg.Metrics.Backends = []string{"statsd"}
	if _, _, err := Open(context.Background(), cfg, nil, nil); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: err = %v", err)
	}

	cfg.Metrics.Backends = []string{config.BackendBus}
	if _, _, err := Open(context.Background(), cfg, nil, nil); err == nil {
		t.Error("bus backend without publisher should fail")
	}

	cfg.Metrics.Backends = []string{config.BackendBus}
	em, closeFn, err := Open(context.Background(), cfg, &mockPublisher{}, nil)
	if err != nil {
		t.Fatalf("bus with publisher: %v", err)
	}
	closeFn()
	if _, ok := em.(*Bus); !ok {
		t.Errorf("emitter = %T, want *Bus", em)
	}
}
