package lender

import (
	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/preapproval"
)

type LenderDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rate        float64  `json:"rate"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Color       string   `json:"color"`
	Features    []string `json:"features"`
	MaxAmount   float64  `json:"max_amount"`
	MinTerm     int      `json:"min_term"`
	MaxTerm     int      `json:"max_term"`
	// AdvertisedMax is the amount the features text announces, 0 when it has none.
	AdvertisedMax float64 `json:"advertised_max"`
}

func toDTO(l *lender.Lender) LenderDTO {
	dto := LenderDTO{
		ID:          l.ID,
		Name:        l.Name,
		Rate:        l.Rate,
		Description: l.Description,
		Image:       l.Image,
		Color:       l.Color,
		Features:    append([]string(nil), l.Features...),
		MaxAmount:   l.MaxAmount,
		MinTerm:     l.MinTerm,
		MaxTerm:     l.MaxTerm,
	}
	if v, ok := preapproval.MaxAmountFromFeatures(l.Features); ok {
		dto.AdvertisedMax = v
	}
	return dto
}
