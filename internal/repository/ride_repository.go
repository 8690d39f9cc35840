package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"podium/internal/model"
)

// RideTotals is a ride count and the sum of their frozen prices.
type RideTotals struct {
	Count   int64
	Revenue decimal.Decimal
}

// RideRepository defines ride persistence operations.
type RideRepository interface {
	Create(ctx context.Context, ride *model.Ride) error
	List(ctx context.Context, q CompanyQuery) ([]model.Ride, error)
	// TotalsSince aggregates rides created at or after since. A nil companyID
	// aggregates across every company.
	TotalsSince(ctx context.Context, since time.Time, companyID *uint) (RideTotals, error)
}

type rideRepository struct {
	db *gorm.DB
}

// NewRideRepository creates a new ride repository.
func NewRideRepository(db *gorm.DB) RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) Create(ctx context.Context, ride *model.Ride) error {
	return r.db.WithContext(ctx).Create(ride).Error
}

func (r *rideRepository) List(ctx context.Context, q CompanyQuery) ([]model.Ride, error) {
	db, err := q.scope(r.db.WithContext(ctx).Model(&model.Ride{}), "company_id")
	if err != nil {
		return nil, err
	}

	var rides []model.Ride
	if err := db.Order("created_at DESC, id DESC").Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) TotalsSince(ctx context.Context, since time.Time, companyID *uint) (RideTotals, error) {
	q := r.db.WithContext(ctx).Model(&model.Ride{}).
		Select("COUNT(*), COALESCE(SUM(price_fixed), 0)").
		Where("created_at >= ?", since)
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
	}

	var (
		count   int64
		revenue decimal.NullDecimal
	)
	if err := q.Row().Scan(&count, &revenue); err != nil {
		return RideTotals{}, err
	}

	totals := RideTotals{Count: count, Revenue: decimal.Zero}
	if revenue.Valid {
		totals.Revenue = revenue.Decimal
	}
	return totals, nil
}
