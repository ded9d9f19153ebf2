package status

import (
	"context"
	"fmt"

	"credit-preapproval/internal/domain/loan"
	"credit-preapproval/internal/domain/preapproval"
)

type Sessions interface {
	Session(sessionID string) preapproval.Session
}

type Usecase struct {
	sessions Sessions
	loans    loan.Backend
}

func NewUsecase(s Sessions, l loan.Backend) *Usecase { return &Usecase{sessions: s, loans: l} }

// Status lists the applicant's loans as the backend reports them, each with
// its display progress.
func (u *Usecase) Status(ctx context.Context, sessionID string) (*StatusDTO, error) {
	token, err := u.sessions.Session(sessionID).Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", preapproval.ErrAuthenticationMissing, err)
	}
	if token == "" {
		return nil, preapproval.ErrAuthenticationMissing
	}

	loans, err := u.loans.ListMine(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loan.ErrFetchFailed, err)
	}
	out := &StatusDTO{Loans: make([]LoanStatusDTO, 0, len(loans))}
	for _, l := range loans {
		out.Loans = append(out.Loans, LoanStatusDTO{
			ID:          l.ID,
			Reference:   l.Reference(),
			Status:      string(l.Status),
			Progress:    l.Status.Progress(),
			Tone:        l.Status.Tone(),
			LoanAmount:  l.LoanAmount,
			LoanPurpose: l.LoanPurpose,
			LoanTerm:    l.LoanTerm,
			LenderName:  l.LenderName,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}
