package metrics

import (
	"context"

	"github.com/ashleyolson477/fischertechnik-lambda/store"
)

// SQL appends each point to the metric_points table.
type SQL struct {
	db        *store.DB
	namespace string
}

func NewSQL(db *store.DB, namespace string) *SQL {
	return &SQL{db: db, namespace: namespace}
}

func (s *SQL) Emit(ctx context.Context, d Datum) error {
	if err := d.Validate(); err != nil {
		return err
	}
	p := &store.Point{
		Namespace:  s.namespace,
		Name:       d.Name,
		Value:      d.Value,
		Unit:       string(d.Unit),
		RecordedAt: d.Timestamp,
	}
	for _, dim := range d.Dimensions {
		p.Dimensions = append(p.Dimensions, store.Dimension{Name: dim.Name, Value: dim.Value})
	}
	return s.db.InsertPoint(ctx, p)
}
