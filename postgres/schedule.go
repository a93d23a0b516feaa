package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/meikuraledutech/studyplan"
)

// SaveSchedule stores sched as the catalogue's current schedule, replacing any
// previous one. A zero CreatedAt is set to the current time.
// Returns ErrCatalogueNotFound if the catalogue doesn't exist.
func (s *PGStore) SaveSchedule(ctx context.Context, catalogueID string, sched *studyplan.Schedule) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("studyplan: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockCatalogue(ctx, tx, catalogueID); err != nil {
		return err
	}
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE catalogue_id = $1`, catalogueID); err != nil {
		return fmt.Errorf("studyplan: delete schedule: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schedules (catalogue_id, created_at) VALUES ($1, $2)`, catalogueID, sched.CreatedAt,
	); err != nil {
		return fmt.Errorf("studyplan: insert schedule: %w", err)
	}

	for _, l := range sched.Levels {
		if _, err := tx.Exec(ctx,
			`INSERT INTO schedule_levels (catalogue_id, level, modules) VALUES ($1, $2, $3)`,
			catalogueID, l.Index, textArray(l.Modules),
		); err != nil {
			return fmt.Errorf("studyplan: insert level %d: %w", l.Index, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("studyplan: commit: %w", err)
	}
	return nil
}

// GetSchedule fetches the catalogue's stored schedule.
// Returns nil, nil if none is stored.
func (s *PGStore) GetSchedule(ctx context.Context, catalogueID string) (*studyplan.Schedule, error) {
	sched := &studyplan.Schedule{Levels: []studyplan.Level{}}
	err := s.db.QueryRow(ctx,
		`SELECT created_at FROM schedules WHERE catalogue_id = $1`, catalogueID,
	).Scan(&sched.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("studyplan: get schedule: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT level, modules FROM schedule_levels WHERE catalogue_id = $1 ORDER BY level`, catalogueID)
	if err != nil {
		return nil, fmt.Errorf("studyplan: query levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l studyplan.Level
		if err := rows.Scan(&l.Index, &l.Modules); err != nil {
			return nil, fmt.Errorf("studyplan: scan level: %w", err)
		}
		sched.Levels = append(sched.Levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studyplan: rows levels: %w", err)
	}
	return sched, nil
}
