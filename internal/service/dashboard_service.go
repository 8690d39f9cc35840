package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"podium/internal/auth"
	"podium/internal/model"
	"podium/internal/repository"
)

// AdminKPIs is the fleet-wide dashboard.
type AdminKPIs struct {
	DriversOnline int64   `json:"drivers_online"`
	RidesToday    int64   `json:"rides_today"`
	RevenueToday  float64 `json:"revenue_today"`
	AverageTicket float64 `json:"average_ticket"`
}

// CorporateKPIs is the dashboard of one company.
type CorporateKPIs struct {
	MonthlyConsumption float64 `json:"monthly_consumption"`
	ActiveEmployees    int64   `json:"active_employees"`
	RidesCompleted     int64   `json:"rides_completed"`
	RemainingBudget    float64 `json:"remaining_budget"`
}

// DashboardService computes dashboard KPIs.
type DashboardService interface {
	Admin(ctx context.Context) (*AdminKPIs, error)
	Corporate(ctx context.Context, p *auth.Principal) (*CorporateKPIs, error)
}

type dashboardService struct {
	users       repository.UserRepository
	costCenters repository.CostCenterRepository
	rides       repository.RideRepository
	enforcer    *auth.SovereigntyEnforcer
	now         func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(
	users repository.UserRepository,
	costCenters repository.CostCenterRepository,
	rides repository.RideRepository,
	enforcer *auth.SovereigntyEnforcer,
) DashboardService {
	return &dashboardService{
		users:       users,
		costCenters: costCenters,
		rides:       rides,
		enforcer:    enforcer,
		now:         time.Now,
	}
}

// Admin counts active drivers and today's rides since midnight UTC.
func (s *dashboardService) Admin(ctx context.Context) (*AdminKPIs, error) {
	drivers, err := s.users.CountActiveByRole(ctx, model.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}
	totals, err := s.rides.TotalsSince(ctx, startOfDayUTC(s.now()), nil)
	if err != nil {
		return nil, fmt.Errorf("ride totals: %w", err)
	}
	kpis := adminKPIs(drivers, totals)
	return &kpis, nil
}

// Corporate reports the caller's company for the current UTC month. Only
// employees can own a company, so every other role is refused.
func (s *dashboardService) Corporate(ctx context.Context, p *auth.Principal) (*CorporateKPIs, error) {
	companyID, err := s.enforcer.ResolveOwnedCompany(p)
	if err != nil {
		return nil, err
	}

	employees, err := s.users.CountActiveEmployees(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	totals, err := s.rides.TotalsSince(ctx, startOfMonthUTC(s.now()), &companyID)
	if err != nil {
		return nil, fmt.Errorf("ride totals: %w", err)
	}
	budget, err := s.costCenters.SumBudget(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("sum budget: %w", err)
	}
	kpis := corporateKPIs(employees, totals, budget)
	return &kpis, nil
}

func adminKPIs(drivers int64, totals repository.RideTotals) AdminKPIs {
	average := decimal.Zero
	if totals.Count > 0 {
		average = totals.Revenue.Div(decimal.NewFromInt(totals.Count))
	}
	return AdminKPIs{
		DriversOnline: drivers,
		RidesToday:    totals.Count,
		RevenueToday:  totals.Revenue.InexactFloat64(),
		AverageTicket: average.InexactFloat64(),
	}
}

// corporateKPIs leaves a negative remaining budget as is.
func corporateKPIs(employees int64, totals repository.RideTotals, budget decimal.Decimal) CorporateKPIs {
	return CorporateKPIs{
		MonthlyConsumption: totals.Revenue.InexactFloat64(),
		ActiveEmployees:    employees,
		RidesCompleted:     totals.Count,
		RemainingBudget:    budget.Sub(totals.Revenue).InexactFloat64(),
	}
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
