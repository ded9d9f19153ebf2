package preapproval

import (
	"testing"

	"credit-preapproval/internal/domain/lender"
)

func TestMaxAmountFromFeatures(t *testing.T) {
	cases := []struct {
		name     string
		features []string
		want     float64
		ok       bool
	}{
		{"thousands separator", []string{"Up to M500,000", "12-60 months"}, 500000, true},
		{"no separator", []string{"Fast", "Up to M75000"}, 75000, true},
		{"multiple separators", []string{"Up to M1,250,000"}, 1250000, true},
		{"no amount feature", []string{"12-60 months", "Mobile banking"}, 0, false},
		{"marker without digits", []string{"Up to M"}, 0, false},
		{"empty", nil, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := MaxAmountFromFeatures(c.features)
			if ok != c.ok || got != c.want {
				t.Fatalf("got (%v, %v), want (%v, %v)", got, ok, c.want, c.ok)
			}
		})
	}
}

func TestPrefill_LenderAmount(t *testing.T) {
	var d Draft
	d.Prefill(nil, &lender.Lender{ID: "1", Features: []string{"Up to M500,000", "12-60 months"}})
	if d.LoanAmount != "500000" {
		t.Fatalf("loan amount = %q, want 500000", d.LoanAmount)
	}

	var empty Draft
	empty.Prefill(nil, &lender.Lender{ID: "2", Features: []string{"Mobile banking"}})
	if empty.LoanAmount != "" {
		t.Fatalf("loan amount = %q, want empty", empty.LoanAmount)
	}
}

func TestPrefill_Profile(t *testing.T) {
	var d Draft
	d.Prefill(&Profile{
		FirstName:        "Thabo",
		LastName:         "Mokoena",
		Email:            "thabo@example.com",
		Phone:            "+26658123456",
		EmploymentStatus: "Employed",
		AnnualIncome:     60000,
	}, nil)

	want := Draft{
		FirstName:  "Thabo",
		LastName:   "Mokoena",
		Email:      "thabo@example.com",
		Phone:      "58123456",
		Employment: "employed",
		Income:     "5000.00",
	}
	if d != want {
		t.Fatalf("got %+v\nwant %+v", d, want)
	}
}

func TestPrefill_DoesNotOverwrite(t *testing.T) {
	d := Draft{FirstName: "Lerato", LoanAmount: "15000"}
	d.Prefill(
		&Profile{FirstName: "Thabo", LastName: "M"},
		&lender.Lender{Features: []string{"Up to M500,000"}},
	)
	if d.FirstName != "Lerato" {
		t.Fatalf("first name overwritten: %q", d.FirstName)
	}
	if d.LastName != "M" {
		t.Fatalf("empty last name not filled: %q", d.LastName)
	}
	if d.LoanAmount != "15000" {
		t.Fatalf("loan amount overwritten: %q", d.LoanAmount)
	}
}

func TestPrefill_ZeroIncomeLeftEmpty(t *testing.T) {
	var d Draft
	d.Prefill(&Profile{FirstName: "A"}, nil)
	if d.Income != "" {
		t.Fatalf("income = %q, want empty", d.Income)
	}
}
