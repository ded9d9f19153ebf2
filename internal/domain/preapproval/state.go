package preapproval

import "fmt"

// Stage is the wizard page index.
type Stage int

const (
	StageBasicInfo Stage = iota
	StageFinancialDetails
	StageReview
)

func (s Stage) Valid() bool { return s >= StageBasicInfo && s <= StageReview }

func (s Stage) Label() string {
	switch s {
	case StageBasicInfo:
		return "Basic Information"
	case StageFinancialDetails:
		return "Financial Details"
	case StageReview:
		return "Review & Submit"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

type Kind string

const (
	KindBasicInfo        Kind = "basic_info"
	KindFinancialDetails Kind = "financial_details"
	KindReview           Kind = "review"
	KindSubmitting       Kind = "submitting"
	KindSubmitted        Kind = "submitted"
	KindFailed           Kind = "failed"
)

// State is the flow's position. The stage index is derived from Kind, so a
// submitted or submitting flow can never also claim to be on an earlier page.
// Failure is only set for KindFailed.
type State struct {
	Kind    Kind   `json:"kind"`
	Failure string `json:"failure,omitempty"`
}

// Initial returns the entry state for a deep-linked stage.
func Initial(stage Stage) (State, error) {
	switch stage {
	case StageBasicInfo:
		return State{Kind: KindBasicInfo}, nil
	case StageFinancialDetails:
		return State{Kind: KindFinancialDetails}, nil
	case StageReview:
		return State{Kind: KindReview}, nil
	}
	return State{}, fmt.Errorf("%w: %d", ErrInvalidStage, int(stage))
}

func (s State) Stage() Stage {
	switch s.Kind {
	case KindBasicInfo:
		return StageBasicInfo
	case KindFinancialDetails:
		return StageFinancialDetails
	}
	return StageReview
}

func (s State) Terminal() bool { return s.Kind == KindSubmitted }

// busy reports the error every event gets while the flow is not interactive.
func (s State) busy() error {
	switch s.Kind {
	case KindSubmitting:
		return ErrSubmissionInProgress
	case KindSubmitted:
		return ErrTerminal
	}
	return nil
}

// Editable reports whether field edits are accepted.
func (s State) Editable() error { return s.busy() }

// Advance moves one page forward. Validation is the caller's job.
func (s State) Advance() (State, error) {
	if err := s.busy(); err != nil {
		return s, err
	}
	switch s.Kind {
	case KindBasicInfo:
		return State{Kind: KindFinancialDetails}, nil
	case KindFinancialDetails:
		return State{Kind: KindReview}, nil
	}
	return s, fmt.Errorf("%w: next from %s", ErrInvalidTransition, s.Kind)
}

// Retreat moves one page back; a failed submission goes back like the review page.
func (s State) Retreat() (State, error) {
	if err := s.busy(); err != nil {
		return s, err
	}
	switch s.Kind {
	case KindFinancialDetails:
		return State{Kind: KindBasicInfo}, nil
	case KindReview, KindFailed:
		return State{Kind: KindFinancialDetails}, nil
	}
	return s, fmt.Errorf("%w: back from %s", ErrInvalidTransition, s.Kind)
}

// BeginSubmit is allowed from review and from a failed attempt (retry).
func (s State) BeginSubmit() (State, error) {
	if err := s.busy(); err != nil {
		return s, err
	}
	switch s.Kind {
	case KindReview, KindFailed:
		return State{Kind: KindSubmitting}, nil
	}
	return s, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.Kind)
}

func (s State) Succeed() (State, error) {
	if s.Kind != KindSubmitting {
		return s, fmt.Errorf("%w: success from %s", ErrInvalidTransition, s.Kind)
	}
	return State{Kind: KindSubmitted}, nil
}

func (s State) Fail(message string) (State, error) {
	if s.Kind != KindSubmitting {
		return s, fmt.Errorf("%w: failure from %s", ErrInvalidTransition, s.Kind)
	}
	return State{Kind: KindFailed, Failure: message}, nil
}
