package application

import (
	"time"
)

// Table: applications
// One row per successful pre-approval submission, kept for the session's history view.
type Application struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID    string    `gorm:"column:loan_id;size:64;not null;index" json:"loan_id"`
	SessionID string    `gorm:"column:session_id;size:64;not null;index:idx_applications_session" json:"-"`
	FlowID    string    `gorm:"column:flow_id;type:char(32);not null" json:"flow_id"`
	Status    string    `gorm:"column:status;size:32" json:"status"`
	LenderID  *string   `gorm:"column:lender_id;size:32" json:"lender_id"`
	Lender    string    `gorm:"column:lender;size:128" json:"lender"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Purpose   string    `gorm:"column:purpose;size:64" json:"purpose"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_applications_session" json:"created_at"`
}

func (Application) TableName() string { return "applications" }
