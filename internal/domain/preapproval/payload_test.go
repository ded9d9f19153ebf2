package preapproval

import (
	"errors"
	"testing"

	"credit-preapproval/internal/domain/lender"
)

func TestBuildLoanRequest_GeneralApplication(t *testing.T) {
	d := validFinancial()
	d.Employment = "Employed"
	req, err := BuildLoanRequest(d, nil, 0)
	if err != nil {
		t.Fatalf("BuildLoanRequest: %v", err)
	}
	if req.LoanAmount != 20000 || req.MonthlyIncome != 5000 {
		t.Fatalf("amounts: %+v", req)
	}
	if req.LoanTerm != 12 {
		t.Fatalf("term = %d", req.LoanTerm)
	}
	if req.LenderID != nil || req.LenderName != GeneralApplication {
		t.Fatalf("lender: %v %q", req.LenderID, req.LenderName)
	}
	if req.EmploymentStatus != "employed" {
		t.Fatalf("employment = %q", req.EmploymentStatus)
	}
}

func TestBuildLoanRequest_WithLender(t *testing.T) {
	l := &lender.Lender{ID: "3", Name: "Nedbank Lesotho"}
	req, err := BuildLoanRequest(validFinancial(), l, 24)
	if err != nil {
		t.Fatalf("BuildLoanRequest: %v", err)
	}
	if req.LenderID == nil || *req.LenderID != "3" || req.LenderName != "Nedbank Lesotho" || req.LoanTerm != 24 {
		t.Fatalf("unexpected: %+v", req)
	}
}

func TestBuildLoanRequest_InvalidAmount(t *testing.T) {
	d := validFinancial()
	d.LoanAmount = "lots"
	if _, err := BuildLoanRequest(d, nil, 12); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildReview(t *testing.T) {
	r := BuildReview(Draft{Phone: "58123456", Employment: "self-employed", LoanPurpose: "Home"}, nil)
	if r.Title != "Loan Pre-Approval" {
		t.Fatalf("title = %q", r.Title)
	}
	if r.Basic[0].Value != "Not provided" || r.Basic[3].Value != "+26658123456" {
		t.Fatalf("basic = %+v", r.Basic)
	}
	if r.Financial[0].Value != "Not provided" || r.Financial[2].Value != "Self-Employed" || r.Financial[3].Value != "Home Improvement" {
		t.Fatalf("financial = %+v", r.Financial)
	}
	withLender := BuildReview(Draft{}, &lender.Lender{Name: "First National Bank"})
	if withLender.Title != "First National Bank Application" {
		t.Fatalf("title = %q", withLender.Title)
	}
}

func TestSubmissionError_UserMessage(t *testing.T) {
	e := &SubmissionError{StatusCode: 400, Message: "Loan limit exceeded"}
	if e.UserMessage() != "Loan limit exceeded" || !errors.Is(e, ErrSubmission) {
		t.Fatalf("unexpected: %v", e)
	}
	generic := &SubmissionError{Err: errors.New("dial tcp: refused")}
	if generic.UserMessage() != MsgSubmissionFailed {
		t.Fatalf("got %q", generic.UserMessage())
	}
}
