package repository

import (
	"TinyLink-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeExists   = errors.New("code already exists")
)

// Storage is the persistence contract for link records. The primary key on
// code is the single source of truth for uniqueness: CreateLink must fail
// with ErrCodeExists on a collision, including collisions with soft-deleted
// rows. Read operations only ever see non-deleted rows.
type Storage interface {
	// CreateLink inserts a new record with clicks=0 and deleted=false.
	// Returns ErrCodeExists if the code is already taken, soft-deleted or not.
	CreateLink(ctx context.Context, link *domain.Link) error

	// GetLink returns the non-deleted record for code, or ErrCodeNotFound.
	GetLink(ctx context.Context, code string) (*domain.Link, error)

	// ListLinks returns all non-deleted records, most recently created first.
	ListLinks(ctx context.Context) ([]*domain.Link, error)

	// SoftDeleteLink marks the record as deleted. Idempotent: deleting an
	// already-deleted or unknown code is not an error at this layer.
	SoftDeleteLink(ctx context.Context, code string) error

	// RecordClick atomically increments the click counter and stamps
	// last_clicked. Safe under concurrent calls for the same code.
	RecordClick(ctx context.Context, code string) error

	// CodeExists reports whether the code occupies the primary key,
	// regardless of the deleted flag.
	CodeExists(ctx context.Context, code string) (bool, error)
}
