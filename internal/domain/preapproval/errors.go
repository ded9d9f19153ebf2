package preapproval

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrAuthenticationMissing = errors.New("authentication required")
	ErrSubmission            = errors.New("loan submission failed")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrSubmissionInProgress  = errors.New("submission in progress")
	ErrTerminal              = errors.New("application already submitted")
	ErrInvalidStage          = errors.New("invalid stage")
	ErrUnknownField          = errors.New("unknown field")
	ErrFlowNotFound          = errors.New("pre-approval not found")
	ErrFlowBusy              = errors.New("pre-approval is handling another request")
	ErrNoCurrentApplication  = errors.New("no current application")
)

// User-facing messages for failed submissions.
const (
	MsgAuthenticationRequired = "Authentication required"
	MsgSubmissionFailed       = "Failed to submit loan application"
)

// ValidationError carries the full error set of the stage that refused to advance.
type ValidationError struct {
	Stage  Stage
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("validation failed at %s: %s", e.Stage.Label(), strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SubmissionError is a failed loan-creation call. Message is the server's own
// text when it sent one; StatusCode is 0 for transport failures.
type SubmissionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("loan submission failed (%d): %s", e.StatusCode, e.Message)
	case e.Message != "":
		return "loan submission failed: " + e.Message
	case e.Err != nil:
		return "loan submission failed: " + e.Err.Error()
	}
	return "loan submission failed"
}

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }

func (e *SubmissionError) Unwrap() error { return e.Err }

// UserMessage is what the applicant sees: the server's words when present.
func (e *SubmissionError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgSubmissionFailed
}
