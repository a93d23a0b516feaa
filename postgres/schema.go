package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS catalogues (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalogue_records (
    id            TEXT PRIMARY KEY,
    catalogue_id  TEXT NOT NULL REFERENCES catalogues(id) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    name          TEXT NOT NULL,
    prerequisites TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS schedules (
    catalogue_id TEXT PRIMARY KEY REFERENCES catalogues(id) ON DELETE CASCADE,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_levels (
    catalogue_id TEXT NOT NULL REFERENCES schedules(catalogue_id) ON DELETE CASCADE,
    level        INTEGER NOT NULL,
    modules      TEXT[] NOT NULL,
    PRIMARY KEY (catalogue_id, level)
);

CREATE INDEX IF NOT EXISTS idx_catalogue_records_catalogue ON catalogue_records(catalogue_id, position);
CREATE INDEX IF NOT EXISTS idx_catalogue_records_name      ON catalogue_records(catalogue_id, name);
`

// CreateSchema creates the catalogue and schedule tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops all studyplan tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS schedule_levels, schedules, catalogue_records, catalogues CASCADE;`)
	return err
}
