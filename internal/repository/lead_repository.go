package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// LeadRepository defines lead persistence operations.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	FindByEmail(ctx context.Context, email string) (*model.Lead, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	err := r.db.WithContext(ctx).Create(lead).Error
	return translate(err, apperrors.ErrDuplicateLead, "create lead")
}

func (r *leadRepository) FindByEmail(ctx context.Context, email string) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}
