package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/studyplan"
)

// AddPrerequisite appends a record stating that module requires prerequisite.
// An edit that leaves more modules unscheduled than before is returned as a
// *studyplan.CycleDetectedError and nothing is written.
// Returns ErrCatalogueNotFound if the catalogue doesn't exist.
func (s *PGStore) AddPrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("studyplan: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockCatalogue(ctx, tx, catalogueID); err != nil {
		return err
	}

	// Fetch existing records for cycle detection.
	records, err := listRecords(ctx, tx, catalogueID)
	if err != nil {
		return err
	}

	current := &studyplan.Catalogue{ID: catalogueID, Records: records}
	if _, err := current.WithPrerequisite(module, prerequisite); err != nil {
		return err
	}
	rec := studyplan.Record{Name: module, Prerequisites: []string{prerequisite}}

	if _, err := tx.Exec(ctx,
		`INSERT INTO catalogue_records (id, catalogue_id, position, name, prerequisites) VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), catalogueID, len(records), rec.Name, rec.Prerequisites,
	); err != nil {
		return fmt.Errorf("studyplan: insert record: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE catalogue_id = $1`, catalogueID); err != nil {
		return fmt.Errorf("studyplan: delete schedule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("studyplan: commit: %w", err)
	}
	return nil
}

// RemovePrerequisite drops prerequisite from every record of module.
// Returns ErrCatalogueNotFound if the catalogue doesn't exist.
func (s *PGStore) RemovePrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("studyplan: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockCatalogue(ctx, tx, catalogueID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE catalogue_records SET prerequisites = array_remove(prerequisites, $3) WHERE catalogue_id = $1 AND name = $2`,
		catalogueID, module, prerequisite,
	); err != nil {
		return fmt.Errorf("studyplan: update records: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE catalogue_id = $1`, catalogueID); err != nil {
		return fmt.Errorf("studyplan: delete schedule: %w", err)
	}

	return tx.Commit(ctx)
}
