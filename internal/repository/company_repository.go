package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// CompanyRepository defines company persistence operations.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uint) (*model.Company, error)
	List(ctx context.Context, page Page) ([]model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	err := r.db.WithContext(ctx).Create(company).Error
	return translate(err, apperrors.ErrDuplicateTaxID, "create company")
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context, page Page) ([]model.Company, error) {
	var companies []model.Company
	if err := page.apply(r.db.WithContext(ctx).Order("id")).Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// CostCenterRepository defines cost center persistence operations.
type CostCenterRepository interface {
	Create(ctx context.Context, center *model.CostCenter) error
	FindByID(ctx context.Context, id uint) (*model.CostCenter, error)
	List(ctx context.Context, q CompanyQuery) ([]model.CostCenter, error)
	SumBudget(ctx context.Context, companyID uint) (decimal.Decimal, error)
}

type costCenterRepository struct {
	db *gorm.DB
}

// NewCostCenterRepository creates a new cost center repository.
func NewCostCenterRepository(db *gorm.DB) CostCenterRepository {
	return &costCenterRepository{db: db}
}

func (r *costCenterRepository) Create(ctx context.Context, center *model.CostCenter) error {
	return r.db.WithContext(ctx).Create(center).Error
}

func (r *costCenterRepository) FindByID(ctx context.Context, id uint) (*model.CostCenter, error) {
	var center model.CostCenter
	if err := r.db.WithContext(ctx).First(&center, id).Error; err != nil {
		return nil, err
	}
	return &center, nil
}

func (r *costCenterRepository) List(ctx context.Context, q CompanyQuery) ([]model.CostCenter, error) {
	db, err := q.scope(r.db.WithContext(ctx).Model(&model.CostCenter{}), "company_id")
	if err != nil {
		return nil, err
	}

	var centers []model.CostCenter
	if err := db.Order("id").Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

// SumBudget adds up the budget limits of a company's cost centers. Centers
// without a limit contribute nothing and an empty company sums to zero.
func (r *costCenterRepository) SumBudget(ctx context.Context, companyID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.CostCenter{}).
		Select("COALESCE(SUM(budget_limit), 0)").
		Where("company_id = ?", companyID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
