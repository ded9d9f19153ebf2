package session

import (
	"context"
	"errors"

	"credit-preapproval/internal/domain/preapproval"
)

var ErrInvalidInput = errors.New("invalid input")

// Store is the write side of the session store plus the status-page read.
type Store interface {
	Put(ctx context.Context, sessionID, token string, profile *preapproval.Profile) error
	// CurrentApplication returns preapproval.ErrNoCurrentApplication when nothing was submitted.
	CurrentApplication(ctx context.Context, sessionID string) (*preapproval.CurrentApplication, error)
}

type Usecase struct{ store Store }

func NewUsecase(s Store) *Usecase { return &Usecase{store: s} }

type PutInput struct {
	Token    string               `json:"token"`
	UserData *preapproval.Profile `json:"user_data"`
}

// Put records what sign-in produced. The token is stored as given.
func (u *Usecase) Put(ctx context.Context, sessionID string, in PutInput) error {
	if sessionID == "" || in.Token == "" {
		return ErrInvalidInput
	}
	return u.store.Put(ctx, sessionID, in.Token, in.UserData)
}

func (u *Usecase) Current(ctx context.Context, sessionID string) (*preapproval.CurrentApplication, error) {
	return u.store.CurrentApplication(ctx, sessionID)
}
