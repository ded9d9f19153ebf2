package loan

import (
	"errors"
	"strings"
)

var (
	ErrFetchFailed = errors.New("failed to fetch loan applications")
)

// Status is the lifecycle label the loan backend reports.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusDisbursed   Status = "Disbursed"
	StatusRejected    Status = "Rejected"
)

// Progress is the completion percentage shown for a status; unknown statuses report 0.
func (s Status) Progress() int {
	switch s {
	case StatusPending:
		return 30
	case StatusUnderReview:
		return 60
	case StatusApproved:
		return 90
	case StatusDisbursed, StatusRejected:
		return 100
	}
	return 0
}

// Tone groups statuses for display: warning while in flight, success or error once decided.
func (s Status) Tone() string {
	switch s {
	case StatusPending, StatusUnderReview:
		return "warning"
	case StatusApproved, StatusDisbursed:
		return "success"
	case StatusRejected:
		return "error"
	}
	return "default"
}

// DefaultTermMonths is sent when the applicant does not choose a term.
const DefaultTermMonths = 12

// CreateRequest is the loan-creation body expected by the loan backend.
type CreateRequest struct {
	LoanAmount       float64 `json:"loanAmount"`
	LoanPurpose      string  `json:"loanPurpose"`
	LoanTerm         int     `json:"loanTerm"`
	LenderID         *string `json:"lenderId"`
	LenderName       string  `json:"lenderName"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	EmploymentStatus string  `json:"employmentStatus"`
}

// Loan is a loan record as owned by the backend.
type Loan struct {
	ID          string  `json:"id"`
	Status      Status  `json:"status"`
	LoanAmount  float64 `json:"loanAmount"`
	LoanPurpose string  `json:"loanPurpose"`
	LoanTerm    int     `json:"loanTerm,omitempty"`
	LenderName  string  `json:"lenderName,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// Reference is the short code shown for a loan: six characters from the middle
// of a 24-character backend id, or the whole id when it is shorter.
func (l Loan) Reference() string {
	if len(l.ID) >= 24 {
		return strings.ToUpper(l.ID[18:24])
	}
	return strings.ToUpper(l.ID)
}
