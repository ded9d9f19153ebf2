package preapproval

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MinAmount applies to both the monthly income and the requested loan, in maloti.
const MinAmount = 1000

const (
	MsgFirstNameRequired   = "First name is required"
	MsgLastNameRequired    = "Last name is required"
	MsgEmailRequired       = "Email is required"
	MsgEmailInvalid        = "Invalid email format"
	MsgPhoneRequired       = "Phone number is required"
	MsgPhoneInvalid        = "Phone must be 8 digits"
	MsgIncomeRequired      = "Valid monthly income is required"
	MsgIncomeTooLow        = "Minimum income is M1000"
	MsgEmploymentRequired  = "Employment status is required"
	MsgEmploymentInvalid   = "Invalid employment status"
	MsgPurposeRequired     = "Loan purpose is required"
	MsgPurposeInvalid      = "Invalid loan purpose"
	MsgLoanAmountRequired  = "Valid loan amount is required"
	MsgLoanAmountTooLow    = "Minimum loan amount is M1000"
	MsgFixValidationErrors = "Please fix all validation errors"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone = regexp.MustCompile(`^[0-9]{8}$`)
)

// reDecimal admits plain decimal notation only: no hex, digit separators or Inf/NaN words.
var reDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ValidationErrors maps a field to its message. Empty means the stage is satisfied.
type ValidationErrors map[Field]string

func (v ValidationErrors) Empty() bool { return len(v) == 0 }

// Fields returns the failing fields in sorted order.
func (v ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for f, m := range v {
		out[f] = m
	}
	return out
}

type rule struct {
	ok      func(string) bool
	message string
}

type fieldRules struct {
	field Field
	rules []rule
}

// rulesByStage is evaluated top to bottom; the first failing rule of a field wins.
// The review stage adds no fields.
var rulesByStage = map[Stage][]fieldRules{
	StageBasicInfo: {
		{FieldFirstName, []rule{{present, MsgFirstNameRequired}}},
		{FieldLastName, []rule{{present, MsgLastNameRequired}}},
		{FieldEmail, []rule{{present, MsgEmailRequired}, {reEmail.MatchString, MsgEmailInvalid}}},
		{FieldPhone, []rule{{present, MsgPhoneRequired}, {rePhone.MatchString, MsgPhoneInvalid}}},
	},
	StageFinancialDetails: {
		{FieldIncome, []rule{{numeric, MsgIncomeRequired}, {atLeast(MinAmount), MsgIncomeTooLow}}},
		{FieldEmployment, []rule{{present, MsgEmploymentRequired}, {oneOf(EmploymentOptions), MsgEmploymentInvalid}}},
		{FieldLoanPurpose, []rule{{present, MsgPurposeRequired}, {oneOf(LoanPurposes), MsgPurposeInvalid}}},
		{FieldLoanAmount, []rule{{numeric, MsgLoanAmountRequired}, {atLeast(MinAmount), MsgLoanAmountTooLow}}},
	},
}

// Validate evaluates the rule table of one stage against d.
func Validate(stage Stage, d Draft) ValidationErrors {
	errs := ValidationErrors{}
	for _, fr := range rulesByStage[stage] {
		v := d.Get(fr.field)
		for _, r := range fr.rules {
			if !r.ok(v) {
				errs[fr.field] = r.message
				break
			}
		}
	}
	return errs
}

func CanAdvance(stage Stage, d Draft) bool { return Validate(stage, d).Empty() }

func present(s string) bool { return s != "" }

func numeric(s string) bool {
	_, ok := ParseAmount(s)
	return ok
}

func atLeast(min float64) func(string) bool {
	return func(s string) bool {
		f, ok := ParseAmount(s)
		return ok && f >= min
	}
}

func oneOf(opts []Option) func(string) bool {
	return func(s string) bool {
		_, ok := label(opts, s)
		return ok
	}
}

// ParseAmount reads a currency amount typed into the form.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !reDecimal.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
