package preapproval

import "credit-preapproval/internal/domain/lender"

// Snapshot is the serialisable form of a flow.
type Snapshot struct {
	ID          string              `json:"id"`
	State       State               `json:"state"`
	Draft       Draft               `json:"draft"`
	Lender      *lender.Lender      `json:"lender,omitempty"`
	Errors      ValidationErrors    `json:"errors,omitempty"`
	Message     string              `json:"message,omitempty"`
	Application *CurrentApplication `json:"application,omitempty"`
	LoanTerm    int                 `json:"loan_term"`
}
