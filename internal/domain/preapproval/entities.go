package preapproval

import (
	"fmt"
	"strings"
)

// Field names a draft input; the values double as the wire names of the draft.
type Field string

const (
	FieldFirstName   Field = "firstName"
	FieldLastName    Field = "lastName"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldIncome      Field = "income"
	FieldEmployment  Field = "employment"
	FieldLoanAmount  Field = "loanAmount"
	FieldLoanPurpose Field = "loanPurpose"
)

// Fields lists every draft field in form order.
var Fields = []Field{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhone,
	FieldIncome, FieldEmployment, FieldLoanAmount, FieldLoanPurpose,
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Draft holds the applicant's inputs exactly as typed. Numbers stay strings until
// validation so that "not provided" and "not a number" remain distinguishable.
type Draft struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Income      string `json:"income"`
	Employment  string `json:"employment"`
	LoanAmount  string `json:"loanAmount"`
	LoanPurpose string `json:"loanPurpose"`
}

func (d Draft) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldIncome:
		return d.Income
	case FieldEmployment:
		return d.Employment
	case FieldLoanAmount:
		return d.LoanAmount
	case FieldLoanPurpose:
		return d.LoanPurpose
	}
	return ""
}

// Set stores value under f. Employment is normalised to lowercase.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldIncome:
		d.Income = value
	case FieldEmployment:
		d.Employment = strings.ToLower(value)
	case FieldLoanAmount:
		d.LoanAmount = value
	case FieldLoanPurpose:
		d.LoanPurpose = value
	}
}

// fill sets f only when it is still empty.
func (d *Draft) fill(f Field, value string) {
	if d.Get(f) == "" && value != "" {
		d.Set(f, value)
	}
}

// Profile is the stored user record written at sign-in.
type Profile struct {
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	EmploymentStatus string  `json:"employmentStatus"`
	AnnualIncome     float64 `json:"annualIncome"`
}

// CurrentApplication is the summary kept for the status page after a submission.
type CurrentApplication struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Lender  string  `json:"lender"`
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var EmploymentOptions = []Option{
	{Value: "employed", Label: "Employed"},
	{Value: "self-employed", Label: "Self-Employed"},
	{Value: "student", Label: "Student"},
	{Value: "retired", Label: "Retired"},
	{Value: "unemployed", Label: "Unemployed"},
}

var LoanPurposes = []Option{
	{Value: "Home", Label: "Home Improvement"},
	{Value: "Car", Label: "Car Purchase"},
	{Value: "Education", Label: "Education"},
	{Value: "Business", Label: "Business"},
	{Value: "Personal", Label: "Personal Use"},
	{Value: "Medical", Label: "Medical Expenses"},
	{Value: "Debt Consolidation", Label: "Debt Consolidation"},
}

func label(opts []Option, value string) (string, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}
