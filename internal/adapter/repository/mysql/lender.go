package mysql

import (
	"context"
	"errors"

	lenderDomain "credit-preapproval/internal/domain/lender"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) List(ctx context.Context) ([]lenderDomain.Lender, error) {
	var out []lenderDomain.Lender
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *LenderRepository) GetByID(ctx context.Context, id string) (*lenderDomain.Lender, error) {
	var out lenderDomain.Lender
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, lenderDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *LenderRepository) Upsert(ctx context.Context, l *lenderDomain.Lender) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "rate", "description", "image", "color", "features", "max_amount", "min_term", "max_term", "updated_at"}),
		}).
		Create(l).Error
}
