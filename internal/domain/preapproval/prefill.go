package preapproval

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"credit-preapproval/internal/domain/lender"
)

// CountryDialCode is stripped from stored phone numbers; the form holds the local part.
const CountryDialCode = "+266"

var reUpTo = regexp.MustCompile(`Up to M\s*([0-9][0-9,\s]*(?:\.[0-9]+)?)`)

// MaxAmountFromFeatures finds an "Up to M<amount>" feature and returns the amount.
// ok is false when no feature matches or the amount does not parse.
func MaxAmountFromFeatures(features []string) (float64, bool) {
	for _, f := range features {
		if !strings.Contains(f, "Up to M") {
			continue
		}
		m := reUpTo.FindStringSubmatch(f)
		if m == nil {
			return 0, false
		}
		digits := strings.Map(func(r rune) rune {
			if r == ',' || unicode.IsSpace(r) {
				return -1
			}
			return r
		}, m[1])
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// Prefill seeds empty fields from the stored profile and the chosen lender.
// Fields the applicant already has a value for are never overwritten.
func (d *Draft) Prefill(p *Profile, l *lender.Lender) {
	if p != nil {
		d.fill(FieldFirstName, p.FirstName)
		d.fill(FieldLastName, p.LastName)
		d.fill(FieldEmail, p.Email)
		d.fill(FieldPhone, strings.Replace(p.Phone, CountryDialCode, "", 1))
		d.fill(FieldEmployment, strings.ToLower(p.EmploymentStatus))
		if p.AnnualIncome > 0 {
			d.fill(FieldIncome, strconv.FormatFloat(p.AnnualIncome/12, 'f', 2, 64))
		}
	}
	if l != nil {
		if v, ok := MaxAmountFromFeatures(l.Features); ok {
			d.fill(FieldLoanAmount, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
}
