package preapproval

import (
	"time"

	"credit-preapproval/internal/domain/lender"
	domain "credit-preapproval/internal/domain/preapproval"
)

// Exit signals offered to the caller.
const (
	ActionLoanOffers = "loan_offers"
	ActionLoanStatus = "loan_status"
)

type StartInput struct {
	Step     *int   `json:"step"`
	LenderID string `json:"lender_id"`
}

type FlowDTO struct {
	ID          string                     `json:"id"`
	State       domain.Kind                `json:"state"`
	Failure     string                     `json:"failure,omitempty"`
	Stage       int                        `json:"stage"`
	StageLabel  string                     `json:"stage_label"`
	Draft       domain.Draft               `json:"draft"`
	Lender      *lender.Lender             `json:"lender,omitempty"`
	Errors      map[string]string          `json:"errors"`
	Message     string                     `json:"message,omitempty"`
	Review      *domain.Review             `json:"review,omitempty"`
	Application *domain.CurrentApplication `json:"application,omitempty"`
	NextActions []string                   `json:"next_actions"`
}

type ApplicationDTO struct {
	LoanID    string    `json:"loan_id"`
	FlowID    string    `json:"flow_id"`
	Status    string    `json:"status"`
	Lender    string    `json:"lender"`
	Amount    float64   `json:"amount"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(s domain.Snapshot) *FlowDTO {
	stage := s.State.Stage()
	dto := &FlowDTO{
		ID:          s.ID,
		State:       s.State.Kind,
		Failure:     s.State.Failure,
		Stage:       int(stage),
		StageLabel:  stage.Label(),
		Draft:       s.Draft,
		Lender:      s.Lender,
		Errors:      make(map[string]string, len(s.Errors)),
		Message:     s.Message,
		NextActions: []string{ActionLoanOffers},
	}
	for f, msg := range s.Errors {
		dto.Errors[string(f)] = msg
	}
	if stage == domain.StageReview {
		r := domain.BuildReview(s.Draft, s.Lender)
		dto.Review = &r
	}
	if s.Application != nil {
		app := *s.Application
		dto.Application = &app
	}
	if s.State.Terminal() {
		dto.NextActions = append(dto.NextActions, ActionLoanStatus)
	}
	return dto
}
