package lender

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("lender not found")
)

// Table: lenders
type Lender struct {
	ID          string    `gorm:"column:id;size:32;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:128;not null" json:"name"`
	Rate        float64   `gorm:"column:rate;type:decimal(6,3)" json:"rate"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Image       string    `gorm:"column:image;type:text" json:"image"`
	Color       string    `gorm:"column:color;size:16" json:"color"`
	Features    []string  `gorm:"column:features;type:text;serializer:json" json:"features"`
	MaxAmount   float64   `gorm:"column:max_amount;type:decimal(18,2)" json:"max_amount"`
	MinTerm     int       `gorm:"column:min_term" json:"min_term"`
	MaxTerm     int       `gorm:"column:max_term" json:"max_term"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Lender) TableName() string { return "lenders" }

// Defaults is the catalog offered on the loan-offers page.
func Defaults() []Lender {
	return []Lender{
		{
			ID:          "1",
			Name:        "Standard Lesotho Bank",
			Rate:        5.5,
			Description: "Competitive rates with flexible repayment terms",
			Image:       "/assets/images/Standard%20Lesotho%20Bank.jpeg",
			Color:       "#003366",
			Features:    []string{"Up to M500,000", "12-60 months", "No prepayment penalty"},
			MaxAmount:   500000,
			MinTerm:     12,
			MaxTerm:     60,
		},
		{
			ID:          "2",
			Name:        "First National Bank",
			Rate:        6.0,
			Description: "Fast approval process with online application",
			Image:       "/assets/images/FNB.png",
			Color:       "#007C6E",
			Features:    []string{"Up to M300,000", "6-48 months", "Mobile banking"},
			MaxAmount:   300000,
			MinTerm:     6,
			MaxTerm:     48,
		},
		{
			ID:          "3",
			Name:        "Nedbank Lesotho",
			Rate:        5.8,
			Description: "Personalized loan solutions for all needs",
			Image:       "/assets/images/NedBank.png",
			Color:       "#006A4E",
			Features:    []string{"Up to M750,000", "12-84 months", "Relationship discounts"},
			MaxAmount:   750000,
			MinTerm:     12,
			MaxTerm:     84,
		},
		{
			ID:          "4",
			Name:        "Lesotho PostBank",
			Rate:        6.2,
			Description: "Government-backed secure lending options",
			Image:       "/assets/images/Post%20Bank%20Lesotho.png",
			Color:       "#B8860B",
			Features:    []string{"Up to M200,000", "6-36 months", "Low documentation"},
			MaxAmount:   200000,
			MinTerm:     6,
			MaxTerm:     36,
		},
	}
}
