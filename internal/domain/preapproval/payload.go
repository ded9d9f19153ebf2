package preapproval

import (
	"fmt"
	"strings"

	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/loan"
)

// GeneralApplication labels a submission made without choosing a lender.
const GeneralApplication = "General Application"

func LenderLabel(l *lender.Lender) string {
	if l == nil || l.Name == "" {
		return GeneralApplication
	}
	return l.Name
}

// BuildLoanRequest turns a validated draft into the loan-creation body.
func BuildLoanRequest(d Draft, l *lender.Lender, term int) (loan.CreateRequest, error) {
	amount, ok := ParseAmount(d.LoanAmount)
	if !ok {
		return loan.CreateRequest{}, fmt.Errorf("loan amount %q: %w", d.LoanAmount, ErrValidation)
	}
	income, ok := ParseAmount(d.Income)
	if !ok {
		return loan.CreateRequest{}, fmt.Errorf("income %q: %w", d.Income, ErrValidation)
	}
	if term <= 0 {
		term = loan.DefaultTermMonths
	}
	req := loan.CreateRequest{
		LoanAmount:       amount,
		LoanPurpose:      d.LoanPurpose,
		LoanTerm:         term,
		LenderName:       LenderLabel(l),
		MonthlyIncome:    income,
		EmploymentStatus: strings.ToLower(d.Employment),
	}
	if l != nil && l.ID != "" {
		id := l.ID
		req.LenderID = &id
	}
	return req, nil
}
