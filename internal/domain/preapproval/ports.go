package preapproval

import (
	"context"

	"credit-preapproval/internal/domain/loan"
)

// SessionProvider reads what sign-in stored. An absent token is "" with a nil
// error; an absent profile is nil.
type SessionProvider interface {
	Token(ctx context.Context) (string, error)
	Profile(ctx context.Context) (*Profile, error)
}

// ApplicationRecorder keeps the latest submission for the status page.
type ApplicationRecorder interface {
	SaveCurrentApplication(ctx context.Context, app CurrentApplication) error
}

// Session is the full session collaborator a flow works against.
type Session interface {
	SessionProvider
	ApplicationRecorder
}

// LoanCreator is the slice of the loan backend a flow needs.
type LoanCreator interface {
	Create(ctx context.Context, token string, req loan.CreateRequest) (*loan.Loan, error)
}

// FlowStore persists flow snapshots between requests, scoped to a session.
type FlowStore interface {
	Save(ctx context.Context, sessionID string, s Snapshot) error
	// Load returns ErrFlowNotFound for unknown ids and for flows of other sessions.
	Load(ctx context.Context, sessionID, flowID string) (*Snapshot, error)
	// Acquire serialises events on one flow; it returns ErrFlowBusy while another holder runs.
	Acquire(ctx context.Context, flowID string) (release func(), err error)
}
