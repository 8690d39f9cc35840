package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"podium/internal/model"
	"podium/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDWithProfiles(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListEmployees(ctx context.Context, q repository.CompanyQuery) ([]model.EmployeeProfile, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmployeeProfile), args.Error(1)
}

func (m *MockUserRepository) CountActiveByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountActiveEmployees(ctx context.Context, companyID uint) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateDriverLocation(ctx context.Context, userID uint, lat, lng float64, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, lat, lng, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockCompanyRepository is a mock implementation of CompanyRepository.
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *model.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) List(ctx context.Context, page repository.Page) ([]model.Company, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Company), args.Error(1)
}

// MockCostCenterRepository is a mock implementation of CostCenterRepository.
type MockCostCenterRepository struct {
	mock.Mock
}

func (m *MockCostCenterRepository) Create(ctx context.Context, center *model.CostCenter) error {
	args := m.Called(ctx, center)
	return args.Error(0)
}

func (m *MockCostCenterRepository) FindByID(ctx context.Context, id uint) (*model.CostCenter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) List(ctx context.Context, q repository.CompanyQuery) ([]model.CostCenter, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) SumBudget(ctx context.Context, companyID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mock.Mock
}

func (m *MockRideRepository) Create(ctx context.Context, ride *model.Ride) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *MockRideRepository) List(ctx context.Context, q repository.CompanyQuery) ([]model.Ride, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) TotalsSince(ctx context.Context, since time.Time, companyID *uint) (repository.RideTotals, error) {
	args := m.Called(ctx, since, companyID)
	return args.Get(0).(repository.RideTotals), args.Error(1)
}

// MockLeadRepository is a mock implementation of LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*model.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

// MockPricingRepository is a mock implementation of PricingRepository.
// WithTransaction runs fn against the mock itself.
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) Create(ctx context.Context, rule *model.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRepository) ClearDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPricingRepository) List(ctx context.Context, page repository.Page) ([]model.PricingRule, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PricingRule), args.Error(1)
}

func (m *MockPricingRepository) FindDefault(ctx context.Context) (*model.PricingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PricingRule), args.Error(1)
}

func (m *MockPricingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.PricingRepository) error) error {
	m.Called(ctx)
	return fn(ctx, m)
}

// MockQuoter is a mock implementation of Quoter.
type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) Quote(ctx context.Context, distanceKm float64) (decimal.Decimal, error) {
	args := m.Called(ctx, distanceKm)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// memoryCache is an in-process Cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
