package applicationmock

import (
	"context"

	domain "credit-preapproval/internal/domain/application"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn        func(ctx context.Context, a *domain.Application) error
	ListBySessionFn func(ctx context.Context, sessionID string, limit int) ([]domain.Application, error)

	Created []domain.Application
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	m.Created = append(m.Created, *a)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Application, error) {
	if m.ListBySessionFn != nil {
		return m.ListBySessionFn(ctx, sessionID, limit)
	}
	return nil, nil
}
