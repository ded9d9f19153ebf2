package status

type LoanStatusDTO struct {
	ID          string  `json:"id"`
	Reference   string  `json:"reference"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	Tone        string  `json:"tone"`
	LoanAmount  float64 `json:"loan_amount"`
	LoanPurpose string  `json:"loan_purpose"`
	LoanTerm    int     `json:"loan_term,omitempty"`
	LenderName  string  `json:"lender_name,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type StatusDTO struct {
	Loans []LoanStatusDTO `json:"loans"`
}
