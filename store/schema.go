package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS metric_points (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    namespace   TEXT NOT NULL,
    name        TEXT NOT NULL,
    dimensions  TEXT NOT NULL DEFAULT '[]',
    value       REAL NOT NULL,
    unit        TEXT NOT NULL DEFAULT '',
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_metric_points_name ON metric_points(namespace, name, recorded_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS metric_points (
    id          BIGSERIAL PRIMARY KEY,
    namespace   TEXT NOT NULL,
    name        TEXT NOT NULL,
    dimensions  JSONB NOT NULL DEFAULT '[]',
    value       DOUBLE PRECISION NOT NULL,
    unit        TEXT NOT NULL DEFAULT '',
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_metric_points_name ON metric_points(namespace, name, recorded_at);
`
