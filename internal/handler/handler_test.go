package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"podium/internal/auth"
	apperrors "podium/internal/errors"
	"podium/internal/middleware"
	"podium/internal/model"
	"podium/internal/repository"
	"podium/internal/service"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// serve runs h behind a stub that installs principal the way Authenticate does.
func serve(e *echo.Echo, method, target, contentType, body string, principal *auth.Principal, h echo.HandlerFunc) *httptest.ResponseRecorder {
	path := target
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	e.Add(method, path, h, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if principal != nil {
				middleware.SetPrincipal(c, principal)
			}
			return next(c)
		}
	})

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignupAdmin(ctx context.Context, in service.SignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SignupDriver(ctx context.Context, in service.DriverSignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SignupEmployee(ctx context.Context, in service.EmployeeSignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func TestAuthHandler_Login(t *testing.T) {
	form := url.Values{"username": {"driver@podium.com"}, "password": {"secret123"}}

	tests := []struct {
		name        string
		contentType string
		body        string
		setupMock   func(*MockAuthService)
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "json body",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"email":"driver@podium.com","password":"secret123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "driver@podium.com", "secret123").Return("tkn", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "password form",
			contentType: echo.MIMEApplicationForm,
			body:        form.Encode(),
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "driver@podium.com", "secret123").Return("tkn", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "wrong password",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"email":"driver@podium.com","password":"nope"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "driver@podium.com", "nope").Return("", apperrors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:        "missing password",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"email":"driver@podium.com"}`,
			setupMock:   func(m *MockAuthService) {},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			h := NewAuthHandler(svc)

			rec := serve(newEcho(), http.MethodPost, "/login", tt.contentType, tt.body, nil, h.Login)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			} else {
				var res TokenResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				assert.Equal(t, TokenResponse{AccessToken: "tkn", TokenType: "bearer"}, res)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_SignupEmployee(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignupEmployee", mock.Anything, mock.MatchedBy(func(in service.EmployeeSignupInput) bool {
		return in.CompanyID == 3 && in.Email == "emp@acme.com" && in.CostCenterID != nil && *in.CostCenterID == 7
	})).Return(&model.User{ID: 9, Email: "emp@acme.com", HashedPassword: "digest", Role: model.RoleEmployee}, nil)
	h := NewAuthHandler(svc)

	body := `{"email":"emp@acme.com","full_name":"Eve","password":"secret123","company_id":3,"cost_center_id":7}`
	rec := serve(newEcho(), http.MethodPost, "/signup/employee", echo.MIMEApplicationJSON, body, nil, h.SignupEmployee)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "digest")
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("SignupAdmin", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateEmail)
	h := NewAuthHandler(svc)

	body := `{"email":"a@podium.com","full_name":"Ada","password":"secret123"}`
	rec := serve(newEcho(), http.MethodPost, "/signup/admin", echo.MIMEApplicationJSON, body, nil, h.SignupAdmin)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, rec))
}

func TestAuthHandler_SignupShortPassword(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)

	body := `{"email":"a@podium.com","full_name":"Ada","password":"123"}`
	rec := serve(newEcho(), http.MethodPost, "/signup/admin", echo.MIMEApplicationJSON, body, nil, h.SignupAdmin)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SignupAdmin", mock.Anything, mock.Anything)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) UpdateLocation(ctx context.Context, p *auth.Principal, lat, lng float64) (*service.LocationUpdate, error) {
	args := m.Called(ctx, p, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LocationUpdate), args.Error(1)
}

func TestUserHandler_ListUsersReadsQuery(t *testing.T) {
	svc := new(MockUserService)
	svc.On("ListUsers", mock.Anything, repository.UserFilter{
		Page: repository.Page{Skip: 10, Limit: 5},
		Role: model.RoleDriver,
	}).Return([]model.User{{ID: 2, Role: model.RoleDriver}}, nil)
	h := NewUserHandler(svc)

	rec := serve(newEcho(), http.MethodGet, "/users?role=driver&skip=10&limit=5", "", "", nil, h.ListUsers)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(newEcho(), http.MethodGet, "/users?limit=ten", "", "", nil, h.ListUsers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateLocation(t *testing.T) {
	driver := auth.NewPrincipal(&model.User{ID: 2, Role: model.RoleDriver, DriverProfile: &model.DriverProfile{UserID: 2}})

	t.Run("zero coordinates are accepted", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateLocation", mock.Anything, driver, 0.0, 0.0).Return(&service.LocationUpdate{Status: service.LocationUpdated}, nil)
		h := NewUserHandler(svc)

		rec := serve(newEcho(), http.MethodPatch, "/users/me/location", echo.MIMEApplicationJSON, `{"lat":0,"lng":0}`, driver, h.UpdateLocation)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing lng", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewUserHandler(svc)

		rec := serve(newEcho(), http.MethodPatch, "/users/me/location", echo.MIMEApplicationJSON, `{"lat":-3.1}`, driver, h.UpdateLocation)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("profile vanished", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateLocation", mock.Anything, driver, -3.1, -60.0).Return(nil, apperrors.ErrNotFound)
		h := NewUserHandler(svc)

		rec := serve(newEcho(), http.MethodPatch, "/users/me/location", echo.MIMEApplicationJSON, `{"lat":-3.1,"lng":-60.0}`, driver, h.UpdateLocation)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// MockCorporateService is a mock implementation of service.CorporateService.
type MockCorporateService struct {
	mock.Mock
}

func (m *MockCorporateService) ListCostCenters(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.CostCenter, error) {
	args := m.Called(ctx, p, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CostCenter), args.Error(1)
}

func (m *MockCorporateService) CreateCostCenter(ctx context.Context, p *auth.Principal, companyID uint, in service.CostCenterInput) (*model.CostCenter, error) {
	args := m.Called(ctx, p, companyID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CostCenter), args.Error(1)
}

func (m *MockCorporateService) ListEmployees(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.EmployeeProfile, error) {
	args := m.Called(ctx, p, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmployeeProfile), args.Error(1)
}

func (m *MockCorporateService) CreateEmployee(ctx context.Context, p *auth.Principal, companyID uint, costCenterID *uint, in service.EmployeeSignupInput) (*model.User, error) {
	args := m.Called(ctx, p, companyID, costCenterID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockCorporateService) RequestRide(ctx context.Context, p *auth.Principal, in service.RideInput) (*model.Ride, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ride), args.Error(1)
}

func (m *MockCorporateService) ListRides(ctx context.Context, p *auth.Principal, page repository.Page) ([]model.Ride, error) {
	args := m.Called(ctx, p, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func employeeOf(companyID uint) *auth.Principal {
	return auth.NewPrincipal(&model.User{
		ID:              30,
		Role:            model.RoleEmployee,
		IsActive:        true,
		EmployeeProfile: &model.EmployeeProfile{UserID: 30, CompanyID: companyID},
	})
}

func TestCorporateHandler_CreateCostCenter(t *testing.T) {
	p := employeeOf(10)
	body := `{"name":"Diretoria","code":"CC-1","budget_limit":"1500.00"}`

	tests := []struct {
		name       string
		target     string
		setupMock  func(*MockCorporateService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "own company defaults to active",
			target: "/corporate/cost-centers?company_id=10",
			setupMock: func(m *MockCorporateService) {
				m.On("CreateCostCenter", mock.Anything, p, uint(10), mock.MatchedBy(func(in service.CostCenterInput) bool {
					return in.IsActive && in.BudgetLimit != nil && in.BudgetLimit.Equal(decimal.RequireFromString("1500"))
				})).Return(&model.CostCenter{ID: 1, CompanyID: 10}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "foreign company",
			target: "/corporate/cost-centers?company_id=20",
			setupMock: func(m *MockCorporateService) {
				m.On("CreateCostCenter", mock.Anything, p, uint(20), mock.Anything).Return(nil, apperrors.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "company id missing",
			target:     "/corporate/cost-centers",
			setupMock:  func(m *MockCorporateService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_QUERY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCorporateService)
			tt.setupMock(svc)
			h := NewCorporateHandler(svc)

			rec := serve(newEcho(), http.MethodPost, tt.target, echo.MIMEApplicationJSON, body, p, h.CreateCostCenter)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCorporateHandler_CreateEmployeeOptionalCostCenter(t *testing.T) {
	p := employeeOf(10)
	body := `{"email":"new@acme.com","full_name":"New","password":"secret123"}`

	svc := new(MockCorporateService)
	svc.On("CreateEmployee", mock.Anything, p, uint(10), (*uint)(nil), mock.Anything).Return(&model.User{ID: 5}, nil).Once()
	svc.On("CreateEmployee", mock.Anything, p, uint(10), mock.MatchedBy(func(id *uint) bool {
		return id != nil && *id == 4
	}), mock.Anything).Return(&model.User{ID: 6}, nil).Once()
	h := NewCorporateHandler(svc)

	rec := serve(newEcho(), http.MethodPost, "/corporate/employees?company_id=10", echo.MIMEApplicationJSON, body, p, h.CreateEmployee)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(newEcho(), http.MethodPost, "/corporate/employees?company_id=10&cost_center_id=4", echo.MIMEApplicationJSON, body, p, h.CreateEmployee)
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCorporateHandler_RequestRide(t *testing.T) {
	p := employeeOf(10)

	t.Run("no pricing rule", func(t *testing.T) {
		svc := new(MockCorporateService)
		svc.On("RequestRide", mock.Anything, p, mock.Anything).Return(nil, apperrors.ErrNoPricingRule)
		h := NewCorporateHandler(svc)

		body := `{"origin_lat":-3.1,"origin_lng":-60.0,"origin_address":"A","dest_lat":-3.2,"dest_lng":-60.1,"dest_address":"B","distance_km":8,"cost_center_id":1}`
		rec := serve(newEcho(), http.MethodPost, "/corporate/rides", echo.MIMEApplicationJSON, body, p, h.RequestRide)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		svc := new(MockCorporateService)
		h := NewCorporateHandler(svc)

		body := `{"origin_lat":-95,"origin_lng":-60.0,"origin_address":"A","dest_lat":-3.2,"dest_lng":-60.1,"dest_address":"B","distance_km":8,"cost_center_id":1}`
		rec := serve(newEcho(), http.MethodPost, "/corporate/rides", echo.MIMEApplicationJSON, body, p, h.RequestRide)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "RequestRide", mock.Anything, mock.Anything, mock.Anything)
	})
}

// MockPricingService is a mock implementation of service.PricingService.
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Create(ctx context.Context, in service.PricingRuleInput) (*model.PricingRule, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PricingRule), args.Error(1)
}

func (m *MockPricingService) List(ctx context.Context, page repository.Page) ([]model.PricingRule, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PricingRule), args.Error(1)
}

func (m *MockPricingService) Quote(ctx context.Context, distanceKm float64) (decimal.Decimal, error) {
	args := m.Called(ctx, distanceKm)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestPricingHandler_Quote(t *testing.T) {
	svc := new(MockPricingService)
	svc.On("Quote", mock.Anything, 12.0).Return(decimal.RequireFromString("41.00"), nil)
	svc.On("Quote", mock.Anything, 3.0).Return(decimal.Zero, apperrors.ErrNoPricingRule)
	h := NewPricingHandler(svc)

	rec := serve(newEcho(), http.MethodGet, "/pricing/quote?distance_km=12", "", "", nil, h.Quote)
	require.Equal(t, http.StatusOK, rec.Code)
	var res QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, QuoteResponse{DistanceKm: 12, Price: 41}, res)

	rec = serve(newEcho(), http.MethodGet, "/pricing/quote?distance_km=3", "", "", nil, h.Quote)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "NO_PRICING_RULE", errorCode(t, rec))

	rec = serve(newEcho(), http.MethodGet, "/pricing/quote", "", "", nil, h.Quote)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestPricingHandler_CreateDefaults(t *testing.T) {
	svc := new(MockPricingService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.PricingRuleInput) bool {
		return in.IsActive && in.IsTiered && in.IsDefault && len(in.Tiers) == 2 &&
			in.Tiers[1].FixedPrice.Equal(decimal.NewFromInt(35))
	})).Return(&model.PricingRule{ID: 1}, nil)
	h := NewPricingHandler(svc)

	body := `{"name":"Corporativo","is_default":true,"price_per_km_after_tiers":3,
		"tiers":[{"min_distance_km":0,"max_distance_km":5,"fixed_price":20},{"min_distance_km":5,"max_distance_km":10,"fixed_price":35}]}`
	rec := serve(newEcho(), http.MethodPost, "/pricing", echo.MIMEApplicationJSON, body, nil, h.CreatePricing)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	bad := `{"name":"X","tiers":[{"min_distance_km":5,"max_distance_km":2,"fixed_price":20}]}`
	rec = serve(newEcho(), http.MethodPost, "/pricing", echo.MIMEApplicationJSON, bad, nil, h.CreatePricing)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

// MockLeadService is a mock implementation of service.LeadService.
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Create(ctx context.Context, fullName, email, phone string) (*model.Lead, error) {
	args := m.Called(ctx, fullName, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func TestLeadHandler_CreateLead(t *testing.T) {
	svc := new(MockLeadService)
	svc.On("Create", mock.Anything, "Lia", "lia@x.com", "92991234567").Return(nil, apperrors.ErrDuplicateLead)
	h := NewLeadHandler(svc)

	rec := serve(newEcho(), http.MethodPost, "/leads", echo.MIMEApplicationJSON,
		`{"full_name":"Lia","email":"lia@x.com","phone":"92991234567"}`, nil, h.CreateLead)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_LEAD", errorCode(t, rec))
	svc.AssertExpectations(t)
}
