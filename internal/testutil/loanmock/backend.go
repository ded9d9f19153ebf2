package loanmock

import (
	"context"
	"errors"
	"sync"

	domain "credit-preapproval/internal/domain/loan"
)

var ErrNotImplemented = errors.New("not implemented")

// Backend is a function-backed mock that satisfies domain.Backend.
// Every Create request is recorded in Requests.
type Backend struct {
	CreateFn   func(ctx context.Context, token string, req domain.CreateRequest) (*domain.Loan, error)
	ListMineFn func(ctx context.Context, token string) ([]domain.Loan, error)

	mu       sync.Mutex
	Requests []domain.CreateRequest
	Tokens   []string
}

func (m *Backend) Create(ctx context.Context, token string, req domain.CreateRequest) (*domain.Loan, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.Tokens = append(m.Tokens, token)
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token, req)
	}
	return nil, ErrNotImplemented
}

func (m *Backend) ListMine(ctx context.Context, token string) ([]domain.Loan, error) {
	if m.ListMineFn != nil {
		return m.ListMineFn(ctx, token)
	}
	return nil, ErrNotImplemented
}

func (m *Backend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Echo answers Create with a loan mirroring the request.
func Echo(loanID string) func(context.Context, string, domain.CreateRequest) (*domain.Loan, error) {
	return func(_ context.Context, _ string, req domain.CreateRequest) (*domain.Loan, error) {
		return &domain.Loan{
			ID:          loanID,
			Status:      domain.StatusPending,
			LoanAmount:  req.LoanAmount,
			LoanPurpose: req.LoanPurpose,
			LoanTerm:    req.LoanTerm,
			LenderName:  req.LenderName,
		}, nil
	}
}
