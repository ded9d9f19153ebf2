package preapproval

import (
	"context"
	"errors"
	"fmt"

	"credit-preapproval/internal/domain/application"
	"credit-preapproval/internal/domain/lender"
	domain "credit-preapproval/internal/domain/preapproval"

	"go.uber.org/zap"
)

// SessionSource hands out the session collaborator bound to one session id.
type SessionSource interface {
	Session(sessionID string) domain.Session
}

type Params struct {
	Flows    domain.FlowStore
	Sessions SessionSource
	Lenders  lender.Repository
	History  application.Repository
	Loans    domain.LoanCreator
	LoanTerm int
	Log      *zap.Logger
}

// Usecase runs flow events across requests. Every event takes the flow lock,
// restores the stored snapshot, applies the event and stores the result.
type Usecase struct {
	flows    domain.FlowStore
	sessions SessionSource
	lenders  lender.Repository
	history  application.Repository
	loans    domain.LoanCreator
	loanTerm int
	log      *zap.Logger
}

func NewUsecase(p Params) *Usecase {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		flows:    p.Flows,
		sessions: p.Sessions,
		lenders:  p.Lenders,
		history:  p.History,
		loans:    p.Loans,
		loanTerm: p.LoanTerm,
		log:      log,
	}
}

func (u *Usecase) deps(sessionID string) Deps {
	sess := u.sessions.Session(sessionID)
	return Deps{Session: sess, Recorder: sess, Loans: u.loans}
}

// Start mounts a new flow, optionally deep-linked to a stage and bound to a
// catalog lender, and stores it under the session.
func (u *Usecase) Start(ctx context.Context, sessionID string, in StartInput) (*FlowDTO, error) {
	stage := domain.StageBasicInfo
	if in.Step != nil {
		stage = domain.Stage(*in.Step)
	}
	var l *lender.Lender
	if in.LenderID != "" {
		found, err := u.lenders.GetByID(ctx, in.LenderID)
		if err != nil {
			return nil, err
		}
		l = found
	}

	f, err := New(ctx, u.deps(sessionID), Entry{Stage: stage, Lender: l},
		WithLogger(u.log), WithLoanTerm(u.loanTerm))
	if err != nil {
		return nil, err
	}
	snap := f.Snapshot()
	if err := u.flows.Save(ctx, sessionID, snap); err != nil {
		return nil, fmt.Errorf("save flow: %w", err)
	}
	u.log.Info("pre-approval started", zap.String("flow_id", f.ID()), zap.Int("stage", int(stage)))
	return toDTO(snap), nil
}

func (u *Usecase) Get(ctx context.Context, sessionID, flowID string) (*FlowDTO, error) {
	snap, err := u.flows.Load(ctx, sessionID, flowID)
	if err != nil {
		return nil, err
	}
	return toDTO(*snap), nil
}

// Update applies field edits given by wire name. Unknown names reject the
// whole batch.
func (u *Usecase) Update(ctx context.Context, sessionID, flowID string, fields map[string]string) (*FlowDTO, error) {
	values := make(map[domain.Field]string, len(fields))
	for name, v := range fields {
		f, err := domain.ParseField(name)
		if err != nil {
			return nil, err
		}
		values[f] = v
	}
	return u.apply(ctx, sessionID, flowID, nil, func(f *Flow) error {
		return f.SetFields(values)
	})
}

// Next returns the stored flow alongside a *ValidationError when the stage refuses.
func (u *Usecase) Next(ctx context.Context, sessionID, flowID string) (*FlowDTO, error) {
	return u.apply(ctx, sessionID, flowID, nil, func(f *Flow) error { return f.Next() })
}

func (u *Usecase) Back(ctx context.Context, sessionID, flowID string) (*FlowDTO, error) {
	return u.apply(ctx, sessionID, flowID, nil, func(f *Flow) error { return f.Back() })
}

// Submit sends the application. The request context's cancellation is not
// passed on: once issued, the submission runs to its own completion or
// timeout. The Submitting state is stored before the call goes out.
func (u *Usecase) Submit(ctx context.Context, sessionID, flowID string) (*FlowDTO, error) {
	ctx = context.WithoutCancel(ctx)
	observe := func(s domain.Snapshot) {
		if s.State.Kind != domain.KindSubmitting {
			return
		}
		if err := u.flows.Save(ctx, sessionID, s); err != nil {
			u.log.Error("failed to store submitting state", zap.String("flow_id", s.ID), zap.Error(err))
		}
	}
	var app *domain.CurrentApplication
	dto, err := u.apply(ctx, sessionID, flowID, observe, func(f *Flow) error {
		var err error
		app, err = f.Submit(ctx)
		return err
	})
	if err == nil && app != nil {
		u.record(ctx, sessionID, dto, *app)
	}
	return dto, err
}

func (u *Usecase) record(ctx context.Context, sessionID string, dto *FlowDTO, app domain.CurrentApplication) {
	if u.history == nil {
		return
	}
	row := &application.Application{
		LoanID:    app.ID,
		SessionID: sessionID,
		FlowID:    dto.ID,
		Status:    app.Status,
		Lender:    app.Lender,
		Amount:    app.Amount,
		Purpose:   app.Purpose,
	}
	if dto.Lender != nil {
		lenderID := dto.Lender.ID
		row.LenderID = &lenderID
	}
	if err := u.history.Create(ctx, row); err != nil {
		u.log.Error("failed to append application history", zap.String("flow_id", dto.ID), zap.String("loan_id", app.ID), zap.Error(err))
	}
}

// History lists the session's submitted applications, newest first.
func (u *Usecase) History(ctx context.Context, sessionID string, limit int) ([]ApplicationDTO, error) {
	rows, err := u.history.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicationDTO{
			LoanID:    r.LoanID,
			FlowID:    r.FlowID,
			Status:    r.Status,
			Lender:    r.Lender,
			Amount:    r.Amount,
			Purpose:   r.Purpose,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// apply runs event against the stored flow under the flow lock. The resulting
// snapshot is stored even when the event fails, so error sets and failure
// messages survive to the next read. Errors that leave nothing to store
// (busy lock, unknown flow) return a nil DTO.
func (u *Usecase) apply(ctx context.Context, sessionID, flowID string, observe func(domain.Snapshot), event func(*Flow) error) (*FlowDTO, error) {
	release, err := u.flows.Acquire(ctx, flowID)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := u.flows.Load(ctx, sessionID, flowID)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithLogger(u.log)}
	if observe != nil {
		opts = append(opts, WithObserver(observe))
	}
	f, err := Restore(*snap, u.deps(sessionID), opts...)
	if err != nil {
		return nil, err
	}

	evErr := event(f)
	out := f.Snapshot()
	if changed(evErr) {
		if err := u.flows.Save(ctx, sessionID, out); err != nil {
			return nil, fmt.Errorf("save flow: %w", err)
		}
	}
	return toDTO(out), evErr
}

// changed reports whether an event outcome may have modified the flow.
func changed(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrTerminal):
		return false
	}
	return true
}
