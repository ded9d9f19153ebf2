package preapproval

import "credit-preapproval/internal/domain/lender"

const notProvided = "Not provided"

type ReviewItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Review is the read-only summary shown on the last page.
type Review struct {
	Title     string         `json:"title"`
	Lender    *lender.Lender `json:"lender,omitempty"`
	Basic     []ReviewItem   `json:"basic"`
	Financial []ReviewItem   `json:"financial"`
	Notice    string         `json:"notice"`
}

func Title(l *lender.Lender) string {
	if l != nil && l.Name != "" {
		return l.Name + " Application"
	}
	return "Loan Pre-Approval"
}

func BuildReview(d Draft, l *lender.Lender) Review {
	or := func(v string) string {
		if v == "" {
			return notProvided
		}
		return v
	}
	money := func(v string) string {
		if v == "" {
			return notProvided
		}
		return "M" + v
	}
	phone := notProvided
	if d.Phone != "" {
		phone = CountryDialCode + d.Phone
	}
	employment, ok := label(EmploymentOptions, d.Employment)
	if !ok {
		employment = notProvided
	}
	purpose, ok := label(LoanPurposes, d.LoanPurpose)
	if !ok {
		purpose = notProvided
	}
	return Review{
		Title:  Title(l),
		Lender: l,
		Basic: []ReviewItem{
			{Label: "First Name", Value: or(d.FirstName)},
			{Label: "Last Name", Value: or(d.LastName)},
			{Label: "Email", Value: or(d.Email)},
			{Label: "Phone", Value: phone},
		},
		Financial: []ReviewItem{
			{Label: "Monthly Income", Value: money(d.Income)},
			{Label: "Loan Amount", Value: money(d.LoanAmount)},
			{Label: "Employment", Value: employment},
			{Label: "Loan Purpose", Value: purpose},
		},
		Notice: "This pre-approval check will not impact your credit score.",
	}
}
