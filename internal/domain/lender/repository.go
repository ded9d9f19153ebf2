package lender

import "context"

type Repository interface {
	List(ctx context.Context) ([]Lender, error)

	// GetByID returns ErrNotFound when no lender has the id.
	GetByID(ctx context.Context, id string) (*Lender, error)

	// Upsert inserts or fully replaces a catalog entry (used for seeding)
	Upsert(ctx context.Context, l *Lender) error
}
