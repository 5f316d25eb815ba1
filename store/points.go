package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Dimension is one name/value tag stored with a point.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Point is one stored metric data point.
type Point struct {
	ID         int64
	Namespace  string
	Name       string
	Dimensions []Dimension
	Value      float64
	Unit       string
	RecordedAt time.Time
}

// InsertPoint appends p to metric_points. A zero RecordedAt is stamped with
// the current time.
func (db *DB) InsertPoint(ctx context.Context, p *Point) error {
	if p.RecordedAt.IsZero() {
		p.RecordedAt = time.Now().UTC()
	}
	dims := p.Dimensions
	if dims == nil {
		dims = []Dimension{}
	}
	dimJSON, err := json.Marshal(dims)
	if err != nil {
		return fmt.Errorf("encode dimensions: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO metric_points (namespace, name, dimensions, value, unit, recorded_at)
		VALUES (?, ?, %s, ?, ?, ?) RETURNING id`, db.dialect.JSONParam())
	err = db.QueryRowContext(ctx, db.Q(query),
		p.Namespace, p.Name, string(dimJSON), p.Value, p.Unit, db.dialect.TimeArg(p.RecordedAt),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert point %s: %w", p.Name, err)
	}
	return nil
}

// ListPoints returns the newest points for namespace/name, newest first.
// An empty name matches every metric in the namespace.
func (db *DB) ListPoints(ctx context.Context, namespace, name string, limit int) ([]*Point, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, namespace, name, dimensions, value, unit, recorded_at
		FROM metric_points WHERE namespace = ?`
	args := []any{namespace}
	if name != "" {
		query += ` AND name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPoints(rows)
}

func scanPoints(rows *sql.Rows) ([]*Point, error) {
	var points []*Point
	for rows.Next() {
		var (
			p          Point
			dims       []byte
			recordedAt any
		)
		if err := rows.Scan(&p.ID, &p.Namespace, &p.Name, &dims, &p.Value, &p.Unit, &recordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dims, &p.Dimensions); err != nil {
			return nil, fmt.Errorf("decode dimensions for point %d: %w", p.ID, err)
		}
		p.RecordedAt = parseTime(recordedAt)
		points = append(points, &p)
	}
	return points, rows.Err()
}
