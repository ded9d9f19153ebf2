package loan

import "context"

// Backend is the external loan service; every call carries the applicant's bearer token.
type Backend interface {
	Create(ctx context.Context, token string, req CreateRequest) (*Loan, error)
	ListMine(ctx context.Context, token string) ([]Loan, error)
}
