package lender

import (
	"context"
	"fmt"

	"credit-preapproval/internal/domain/lender"
)

type Usecase struct{ repo lender.Repository }

func NewUsecase(r lender.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) List(ctx context.Context) ([]LenderDTO, error) {
	ls, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LenderDTO, 0, len(ls))
	for i := range ls {
		out = append(out, toDTO(&ls[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, lenderID string) (*LenderDTO, error) {
	l, err := u.repo.GetByID(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(l)
	return &dto, nil
}

// Seed writes the default catalog. Existing rows with the same ids are replaced.
func (u *Usecase) Seed(ctx context.Context) (int, error) {
	defaults := lender.Defaults()
	for i := range defaults {
		if err := u.repo.Upsert(ctx, &defaults[i]); err != nil {
			return i, fmt.Errorf("seed lender %s: %w", defaults[i].ID, err)
		}
	}
	return len(defaults), nil
}
