package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/studyplan"
)

// SaveCatalogue saves a full catalogue in one transaction.
// A catalogue without an ID gets an auto-generated UUID.
// An existing catalogue with the same ID is replaced and its schedule dropped.
// Malformed records are rejected before anything is written.
func (s *PGStore) SaveCatalogue(ctx context.Context, c *studyplan.Catalogue) (*studyplan.Catalogue, error) {
	if _, err := c.Graph(); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("studyplan: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO catalogues (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, c.ID,
	); err != nil {
		return nil, fmt.Errorf("studyplan: insert catalogue: %w", err)
	}

	// Replace semantics: drop previous records and the stale schedule.
	if _, err := tx.Exec(ctx, `DELETE FROM catalogue_records WHERE catalogue_id = $1`, c.ID); err != nil {
		return nil, fmt.Errorf("studyplan: delete records: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE catalogue_id = $1`, c.ID); err != nil {
		return nil, fmt.Errorf("studyplan: delete schedule: %w", err)
	}

	for i, rec := range c.Records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO catalogue_records (id, catalogue_id, position, name, prerequisites) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), c.ID, i, rec.Name, textArray(rec.Prerequisites),
		); err != nil {
			return nil, fmt.Errorf("studyplan: insert record %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("studyplan: commit: %w", err)
	}
	return c, nil
}

// GetCatalogue retrieves a catalogue with its records in insertion order.
// Returns nil, nil if the catalogue doesn't exist.
func (s *PGStore) GetCatalogue(ctx context.Context, catalogueID string) (*studyplan.Catalogue, error) {
	ok, err := catalogueExists(ctx, s.db, catalogueID)
	if err != nil || !ok {
		return nil, err
	}

	records, err := listRecords(ctx, s.db, catalogueID)
	if err != nil {
		return nil, err
	}
	return &studyplan.Catalogue{ID: catalogueID, Records: records}, nil
}

// ListCatalogues returns all catalogue IDs, sorted.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListCatalogues(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM catalogues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("studyplan: list catalogues: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("studyplan: scan catalogue: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studyplan: rows catalogues: %w", err)
	}
	return ids, nil
}

// DeleteCatalogue removes a catalogue; records and schedule are cascade-deleted.
// No error if the catalogue doesn't exist.
func (s *PGStore) DeleteCatalogue(ctx context.Context, catalogueID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM catalogues WHERE id = $1`, catalogueID); err != nil {
		return fmt.Errorf("studyplan: delete catalogue: %w", err)
	}
	return nil
}

func catalogueExists(ctx context.Context, q querier, catalogueID string) (bool, error) {
	var id string
	err := q.QueryRow(ctx, `SELECT id FROM catalogues WHERE id = $1`, catalogueID).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("studyplan: get catalogue: %w", err)
	}
	return true, nil
}

// lockCatalogue takes a row lock on the catalogue for the rest of the transaction.
func lockCatalogue(ctx context.Context, q querier, catalogueID string) error {
	var id string
	err := q.QueryRow(ctx, `SELECT id FROM catalogues WHERE id = $1 FOR UPDATE`, catalogueID).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return studyplan.ErrCatalogueNotFound
		}
		return fmt.Errorf("studyplan: lock catalogue: %w", err)
	}
	return nil
}

func listRecords(ctx context.Context, q querier, catalogueID string) ([]studyplan.Record, error) {
	rows, err := q.Query(ctx,
		`SELECT name, prerequisites FROM catalogue_records WHERE catalogue_id = $1 ORDER BY position`, catalogueID)
	if err != nil {
		return nil, fmt.Errorf("studyplan: query records: %w", err)
	}
	defer rows.Close()

	records := []studyplan.Record{}
	for rows.Next() {
		var rec studyplan.Record
		if err := rows.Scan(&rec.Name, &rec.Prerequisites); err != nil {
			return nil, fmt.Errorf("studyplan: scan record: %w", err)
		}
		if len(rec.Prerequisites) == 0 {
			rec.Prerequisites = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studyplan: rows records: %w", err)
	}
	return records, nil
}
