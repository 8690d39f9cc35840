package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"podium/internal/auth"
	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

// CostCenterInput is the payload for a new cost center.
type CostCenterInput struct {
	Name        string
	Code        string
	BudgetLimit *decimal.Decimal
	IsActive    bool
}

// RideInput is the payload for a new ride request.
type RideInput struct {
	OriginLat     float64
	OriginLng     float64
	OriginAddress string
	DestLat       float64
	DestLng       float64
	DestAddress   string
	DistanceKm    float64
	CostCenterID  uint
}

// Quoter prices a trip by distance.
type Quoter interface {
	Quote(ctx context.Context, distanceKm float64) (decimal.Decimal, error)
}

// CorporateService serves a company's own cost centers, employees and rides.
// Every operation is confined to the caller's company.
type CorporateService interface {
	ListCostCenters(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.CostCenter, error)
	CreateCostCenter(ctx context.Context, p *auth.Principal, companyID uint, in CostCenterInput) (*model.CostCenter, error)
	ListEmployees(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.EmployeeProfile, error)
	CreateEmployee(ctx context.Context, p *auth.Principal, companyID uint, costCenterID *uint, in EmployeeSignupInput) (*model.User, error)
	RequestRide(ctx context.Context, p *auth.Principal, in RideInput) (*model.Ride, error)
	ListRides(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.Ride, error)
}

type corporateService struct {
	users       repository.UserRepository
	costCenters repository.CostCenterRepository
	rides       repository.RideRepository
	enforcer    *auth.SovereigntyEnforcer
	hasher      PasswordHasher
	quoter      Quoter
	logger      *slog.Logger
}

// NewCorporateService creates a corporate service.
func NewCorporateService(
	users repository.UserRepository,
	costCenters repository.CostCenterRepository,
	rides repository.RideRepository,
	enforcer *auth.SovereigntyEnforcer,
	hasher PasswordHasher,
	quoter Quoter,
	logger *slog.Logger,
) CorporateService {
	return &corporateService{
		users:       users,
		costCenters: costCenters,
		rides:       rides,
		enforcer:    enforcer,
		hasher:      hasher,
		quoter:      quoter,
		logger:      resolveLogger(logger),
	}
}

func (s *corporateService) ListCostCenters(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.CostCenter, error) {
	q := repository.CompanyQuery{Page: page}
	owned, err := s.enforcer.ScopeRead(p, &q)
	if err != nil {
		return nil, err
	}
	centers, err := s.costCenters.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list cost centers: %w", err)
	}
	return auth.FilterOwned(owned, centers), nil
}

func (s *corporateService) CreateCostCenter(ctx context.Context, p *auth.Principal, companyID uint, in CostCenterInput) (*model.CostCenter, error) {
	if err := s.enforcer.AuthorizeWrite(p, companyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return nil, apperrors.Invalid("name and code must not be empty")
	}

	center := &model.CostCenter{
		CompanyID: companyID,
		Name:      name,
		Code:      code,
		IsActive:  in.IsActive,
	}
	if in.BudgetLimit != nil {
		if in.BudgetLimit.IsNegative() {
			return nil, apperrors.Invalid("budget_limit must not be negative")
		}
		center.BudgetLimit = decimal.NewNullDecimal(*in.BudgetLimit)
	}

	if err := s.costCenters.Create(ctx, center); err != nil {
		return nil, fmt.Errorf("create cost center: %w", err)
	}
	s.logger.Info("cost center created", "cost_center_id", center.ID, "company_id", companyID, "by", p.ID)
	return center, nil
}

func (s *corporateService) ListEmployees(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.EmployeeProfile, error) {
	q := repository.CompanyQuery{Page: page}
	owned, err := s.enforcer.ScopeRead(p, &q)
	if err != nil {
		return nil, err
	}
	profiles, err := s.users.ListEmployees(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return auth.FilterOwned(owned, profiles), nil
}

// CreateEmployee registers a colleague inside the caller's company.
func (s *corporateService) CreateEmployee(ctx context.Context, p *auth.Principal, companyID uint, costCenterID *uint, in EmployeeSignupInput) (*model.User, error) {
	if err := s.enforcer.AuthorizeWrite(p, companyID); err != nil {
		return nil, err
	}
	if err := checkCostCenter(ctx, s.costCenters, companyID, costCenterID); err != nil {
		return nil, err
	}

	user, err := newUser(ctx, s.users, s.hasher, in.SignupInput, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	user.EmployeeProfile = &model.EmployeeProfile{
		CompanyID:    companyID,
		CostCenterID: costCenterID,
		Department:   in.Department,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("employee created", "user_id", user.ID, "company_id", companyID, "by", p.ID)
	return user, nil
}

// RequestRide books a ride for the caller against one of their company's
// cost centers. The price is quoted once and frozen on the ride.
func (s *corporateService) RequestRide(ctx context.Context, p *auth.Principal, in RideInput) (*model.Ride, error) {
	if _, err := s.enforcer.ResolveOwnedCompany(p); err != nil {
		return nil, err
	}
	if in.DistanceKm <= 0 {
		return nil, apperrors.Invalid("distance_km must be positive")
	}

	center, err := s.costCenters.FindByID(ctx, in.CostCenterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cost center %d: %w", in.CostCenterID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find cost center: %w", err)
	}
	if err := s.enforcer.AuthorizeWrite(p, center.CompanyID); err != nil {
		return nil, err
	}

	price, err := s.quoter.Quote(ctx, in.DistanceKm)
	if err != nil {
		return nil, err
	}

	ride := &model.Ride{
		Status:        model.RideRequested,
		OriginLat:     in.OriginLat,
		OriginLng:     in.OriginLng,
		OriginAddress: strings.TrimSpace(in.OriginAddress),
		DestLat:       in.DestLat,
		DestLng:       in.DestLng,
		DestAddress:   strings.TrimSpace(in.DestAddress),
		DistanceKm:    in.DistanceKm,
		PriceFixed:    price,
		PassengerID:   p.ID,
		CostCenterID:  center.ID,
		CompanyID:     center.CompanyID,
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("create ride: %w", err)
	}
	s.logger.Info("ride requested", "ride_id", ride.ID, "company_id", ride.CompanyID, "price", price.String())
	return ride, nil
}

func (s *corporateService) ListRides(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.Ride, error) {
	q := repository.CompanyQuery{Page: page}
	owned, err := s.enforcer.ScopeRead(p, &q)
	if err != nil {
		return nil, err
	}
	rides, err := s.rides.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	return auth.FilterOwned(owned, rides), nil
}
