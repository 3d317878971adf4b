package store

import (
	"context"
	"time"
)

// Store defines the persistence contract for the validation history.
// The history is observational only: the checker never reads it, so a
// nil Store simply disables recording. All implementations must be safe
// for concurrent use.
type Store interface {
	AddValidation(ctx context.Context, v *Validation) error
	GetValidation(ctx context.Context, id string) (*Validation, error)
	ListValidations(ctx context.Context, filter Filter) ([]*Validation, error)
	Stats(ctx context.Context) (*Stats, error)

	// Prune deletes records older than the cutoff and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Vacuum(ctx context.Context) error

	// Lifecycle
	Close() error
}
