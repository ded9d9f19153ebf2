package preapproval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/loan"
	domain "credit-preapproval/internal/domain/preapproval"
	"credit-preapproval/internal/infrastructure/metrics"
	"credit-preapproval/pkg/id"

	"go.uber.org/zap"
)

// Deps are the collaborators a flow talks to. Recorder is optional.
type Deps struct {
	Session  domain.SessionProvider
	Recorder domain.ApplicationRecorder
	Loans    domain.LoanCreator
}

// Entry is what the caller hands over when the wizard is opened.
type Entry struct {
	Stage  domain.Stage
	Lender *lender.Lender
}

type Option func(*Flow)

func WithLogger(l *zap.Logger) Option { return func(f *Flow) { f.log = l } }

// WithObserver registers a callback that receives a snapshot after every state change.
func WithObserver(fn func(domain.Snapshot)) Option { return func(f *Flow) { f.observer = fn } }

func WithLoanTerm(months int) Option { return func(f *Flow) { f.loanTerm = months } }

func WithID(flowID string) Option { return func(f *Flow) { f.id = flowID } }

// Flow drives one applicant through the pre-approval wizard. Events are
// serialised by mu; the draft is never touched while a submission is in flight.
type Flow struct {
	mu          sync.Mutex
	id          string
	state       domain.State
	draft       domain.Draft
	lender      *lender.Lender
	errs        domain.ValidationErrors
	message     string
	application *domain.CurrentApplication
	loanTerm    int

	deps     Deps
	log      *zap.Logger
	observer func(domain.Snapshot)
}

// New opens a flow at entry.Stage and pre-populates it from the stored profile
// and the chosen lender. A profile that cannot be read is logged and skipped.
func New(ctx context.Context, deps Deps, entry Entry, opts ...Option) (*Flow, error) {
	st, err := domain.Initial(entry.Stage)
	if err != nil {
		return nil, err
	}
	f := newFlow(deps, opts)
	f.state = st
	f.lender = entry.Lender

	var profile *domain.Profile
	if deps.Session != nil {
		profile, err = deps.Session.Profile(ctx)
		if err != nil {
			f.log.Warn("profile unavailable, starting with an empty draft", zap.String("flow_id", f.id), zap.Error(err))
			profile = nil
		}
	}
	f.draft.Prefill(profile, f.lender)
	if f.lender != nil && f.draft.LoanAmount == "" {
		f.log.Debug("lender has no parsable max amount", zap.String("lender_id", f.lender.ID))
	}
	f.log.Debug("flow opened", zap.String("flow_id", f.id), zap.String("state", string(f.state.Kind)))
	return f, nil
}

// Restore rebuilds a flow from a snapshot, e.g. one loaded from the flow store.
func Restore(s domain.Snapshot, deps Deps, opts ...Option) (*Flow, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("restore: %w: missing id", domain.ErrFlowNotFound)
	}
	switch s.State.Kind {
	case domain.KindBasicInfo, domain.KindFinancialDetails, domain.KindReview,
		domain.KindSubmitting, domain.KindSubmitted, domain.KindFailed:
	default:
		return nil, fmt.Errorf("restore: %w: unknown state %q", domain.ErrInvalidStage, s.State.Kind)
	}
	f := newFlow(deps, append([]Option{WithID(s.ID), WithLoanTerm(s.LoanTerm)}, opts...))
	f.state = s.State
	f.draft = s.Draft
	f.lender = s.Lender
	f.message = s.Message
	if s.Errors != nil {
		f.errs = s.Errors.Clone()
	}
	if s.Application != nil {
		app := *s.Application
		f.application = &app
	}
	return f, nil
}

func newFlow(deps Deps, opts []Option) *Flow {
	f := &Flow{
		errs:     domain.ValidationErrors{},
		loanTerm: loan.DefaultTermMonths,
		deps:     deps,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(f)
	}
	if f.id == "" {
		f.id = id.NewID32()
	}
	if f.loanTerm <= 0 {
		f.loanTerm = loan.DefaultTermMonths
	}
	return f
}

func (f *Flow) ID() string { return f.id }

func (f *Flow) State() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Draft() domain.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Errors returns a copy of the error set of the last transition attempt.
func (f *Flow) Errors() domain.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.Clone()
}

// Message is the flow-level alert, empty when there is nothing to surface.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *Flow) Lender() *lender.Lender { return f.lender }

// Application is set once the flow is submitted.
func (f *Flow) Application() *domain.CurrentApplication {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.application == nil {
		return nil
	}
	app := *f.application
	return &app
}

func (f *Flow) Review() domain.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.BuildReview(f.draft, f.lender)
}

func (f *Flow) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() domain.Snapshot {
	s := domain.Snapshot{
		ID:       f.id,
		State:    f.state,
		Draft:    f.draft,
		Lender:   f.lender,
		Errors:   f.errs.Clone(),
		Message:  f.message,
		LoanTerm: f.loanTerm,
	}
	if f.application != nil {
		app := *f.application
		s.Application = &app
	}
	return s
}

func (f *Flow) notify(s domain.Snapshot) {
	if f.observer != nil {
		f.observer(s)
	}
}

// SetField records one edit and clears that field's pending error.
func (f *Flow) SetField(field domain.Field, value string) error {
	return f.SetFields(map[domain.Field]string{field: value})
}

// SetFields applies several edits as one event; nothing is applied when the
// flow does not accept edits.
func (f *Flow) SetFields(values map[domain.Field]string) error {
	f.mu.Lock()
	if err := f.state.Editable(); err != nil {
		f.mu.Unlock()
		metrics.ObserveEvent("edit", metrics.ResultInvalid)
		return err
	}
	keys := make([]domain.Field, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		f.draft.Set(k, values[k])
		delete(f.errs, k)
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	metrics.ObserveEvent("edit", metrics.ResultOK)
	f.notify(snap)
	return nil
}

// Next validates the current stage and moves forward only when it is clean.
// On failure the stage is unchanged and the error set is returned.
func (f *Flow) Next() error {
	f.mu.Lock()
	stage := f.state.Stage()
	next, err := f.state.Advance()
	if err != nil {
		f.mu.Unlock()
		metrics.ObserveEvent("next", metrics.ResultInvalid)
		return err
	}
	errs := domain.Validate(stage, f.draft)
	f.errs = errs
	if !errs.Empty() {
		f.message = domain.MsgFixValidationErrors
		snap := f.snapshotLocked()
		f.mu.Unlock()
		metrics.ObserveEvent("next", metrics.ResultRejected)
		f.notify(snap)
		return &domain.ValidationError{Stage: stage, Fields: errs.Clone()}
	}
	f.state = next
	f.message = ""
	snap := f.snapshotLocked()
	f.mu.Unlock()

	metrics.ObserveEvent("next", metrics.ResultOK)
	f.log.Debug("stage advanced", zap.String("flow_id", f.id), zap.String("state", string(next.Kind)))
	f.notify(snap)
	return nil
}

// Back moves one stage back without touching the draft.
func (f *Flow) Back() error {
	f.mu.Lock()
	prev, err := f.state.Retreat()
	if err != nil {
		f.mu.Unlock()
		metrics.ObserveEvent("back", metrics.ResultInvalid)
		return err
	}
	f.state = prev
	f.message = ""
	snap := f.snapshotLocked()
	f.mu.Unlock()

	metrics.ObserveEvent("back", metrics.ResultOK)
	f.notify(snap)
	return nil
}

// Submit sends the draft to the loan backend. It re-checks the financial
// details first, since they may have been edited after passing that stage.
// While the call is in flight every other event is refused, a second Submit
// included. The draft is identical before and after a failed attempt.
func (f *Flow) Submit(ctx context.Context) (*domain.CurrentApplication, error) {
	f.mu.Lock()
	submitting, err := f.state.BeginSubmit()
	if err != nil {
		f.mu.Unlock()
		metrics.ObserveEvent("submit", metrics.ResultInvalid)
		return nil, err
	}
	if errs := domain.Validate(domain.StageFinancialDetails, f.draft); !errs.Empty() {
		f.errs = errs
		f.message = domain.MsgFixValidationErrors
		snap := f.snapshotLocked()
		f.mu.Unlock()
		metrics.ObserveEvent("submit", metrics.ResultRejected)
		f.notify(snap)
		return nil, &domain.ValidationError{Stage: domain.StageFinancialDetails, Fields: errs.Clone()}
	}
	req, err := domain.BuildLoanRequest(f.draft, f.lender, f.loanTerm)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = submitting
	f.message = ""
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.notify(snap)

	start := time.Now()
	app, failure, err := f.send(ctx, req)
	elapsed := time.Since(start).Seconds()

	f.mu.Lock()
	if err != nil {
		f.state, _ = f.state.Fail(failure)
		f.message = failure
	} else {
		f.state, _ = f.state.Succeed()
		f.application = app
	}
	snap = f.snapshotLocked()
	f.mu.Unlock()

	if err != nil {
		metrics.ObserveSubmission("failed", elapsed)
		f.log.Warn("loan submission failed", zap.String("flow_id", f.id), zap.String("message", failure), zap.Error(err))
	} else {
		metrics.ObserveSubmission("submitted", elapsed)
		f.log.Info("loan submitted", zap.String("flow_id", f.id), zap.String("loan_id", app.ID), zap.String("lender", app.Lender))
	}
	f.notify(snap)
	if err != nil {
		return nil, err
	}
	out := *app
	return &out, nil
}

// send performs the outbound part of Submit without holding the lock. It
// returns the message to surface alongside any error.
func (f *Flow) send(ctx context.Context, req loan.CreateRequest) (*domain.CurrentApplication, string, error) {
	if f.deps.Session == nil || f.deps.Loans == nil {
		return nil, domain.MsgSubmissionFailed, fmt.Errorf("%w: flow has no loan backend", domain.ErrSubmission)
	}
	token, err := f.deps.Session.Token(ctx)
	if err != nil {
		return nil, domain.MsgAuthenticationRequired, fmt.Errorf("%w: %v", domain.ErrAuthenticationMissing, err)
	}
	if token == "" {
		return nil, domain.MsgAuthenticationRequired, domain.ErrAuthenticationMissing
	}

	created, err := f.deps.Loans.Create(ctx, token, req)
	if err != nil {
		var se *domain.SubmissionError
		if !errors.As(err, &se) {
			se = &domain.SubmissionError{Err: err}
		}
		return nil, se.UserMessage(), se
	}
	if created == nil {
		se := &domain.SubmissionError{Err: errors.New("empty loan in response")}
		return nil, se.UserMessage(), se
	}

	app := &domain.CurrentApplication{
		ID:      created.ID,
		Status:  string(created.Status),
		Lender:  domain.LenderLabel(f.lender),
		Amount:  created.LoanAmount,
		Purpose: created.LoanPurpose,
	}
	if f.deps.Recorder != nil {
		// the loan exists at this point; a lost summary must not turn it into a failure
		if err := f.deps.Recorder.SaveCurrentApplication(ctx, *app); err != nil {
			f.log.Error("failed to store current application", zap.String("flow_id", f.id), zap.Error(err))
		}
	}
	return app, "", nil
}
