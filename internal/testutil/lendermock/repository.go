package lendermock

import (
	"context"

	domain "credit-preapproval/internal/domain/lender"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Without funcs it serves the default catalog.
type Repo struct {
	ListFn    func(ctx context.Context) ([]domain.Lender, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.Lender, error)
	UpsertFn  func(ctx context.Context, l *domain.Lender) error
}

func (m *Repo) List(ctx context.Context) ([]domain.Lender, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return domain.Defaults(), nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Lender, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, l := range domain.Defaults() {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Upsert(ctx context.Context, l *domain.Lender) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, l)
	}
	return nil
}
