package studyplan

import (
	"context"
	"errors"
)

var (
	ErrCycleDetected     = errors.New("studyplan: cycle detected, no valid schedule exists")
	ErrMalformedRecord   = errors.New("studyplan: malformed record")
	ErrCatalogueNotFound = errors.New("studyplan: catalogue not found")
)

// Store defines the contract for persisting catalogues and their schedules.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Catalogues (bulk operations)
	SaveCatalogue(ctx context.Context, c *Catalogue) (*Catalogue, error)
	GetCatalogue(ctx context.Context, catalogueID string) (*Catalogue, error)
	ListCatalogues(ctx context.Context) ([]string, error)
	DeleteCatalogue(ctx context.Context, catalogueID string) error

	// Prerequisites. AddPrerequisite rejects an edit that leaves more modules
	// unscheduled than before; a catalogue that is already cyclic stays
	// editable outside its cycle.
	AddPrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error
	RemovePrerequisite(ctx context.Context, catalogueID, module, prerequisite string) error

	// Schedules
	SaveSchedule(ctx context.Context, catalogueID string, s *Schedule) error
	GetSchedule(ctx context.Context, catalogueID string) (*Schedule, error)
}
