package repository

import (
	"context"

	"gorm.io/gorm"

	"podium/internal/model"
)

// PricingRepository defines pricing rule persistence operations.
type PricingRepository interface {
	Create(ctx context.Context, rule *model.PricingRule) error
	ClearDefault(ctx context.Context) error
	List(ctx context.Context, page Page) ([]model.PricingRule, error)
	FindDefault(ctx context.Context) (*model.PricingRule, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PricingRepository) error) error
}

type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository.
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

// Create inserts the rule together with its tiers.
func (r *pricingRepository) Create(ctx context.Context, rule *model.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// ClearDefault unsets the default flag on every rule.
func (r *pricingRepository) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&model.PricingRule{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *pricingRepository) List(ctx context.Context, page Page) ([]model.PricingRule, error) {
	var rules []model.PricingRule
	err := page.apply(r.db.WithContext(ctx).Order("id")).
		Preload("Tiers", orderTiers).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// FindDefault returns the active default rule with its tiers ordered by distance.
func (r *pricingRepository) FindDefault(ctx context.Context) (*model.PricingRule, error) {
	var rule model.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		Preload("Tiers", orderTiers).
		Order("id DESC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// WithTransaction executes a function within a database transaction.
func (r *pricingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PricingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &pricingRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func orderTiers(db *gorm.DB) *gorm.DB {
	return db.Order("min_distance_km")
}
