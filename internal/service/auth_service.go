package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues access tokens for a subject.
type TokenIssuer interface {
	Issue(subjectID uint, ttl time.Duration) (string, error)
}

// SignupInput is shared by every signup flow.
type SignupInput struct {
	Email    string
	FullName string
	Password string
}

// DriverSignupInput adds vehicle data to SignupInput.
type DriverSignupInput struct {
	SignupInput
	VehicleModel  string
	VehiclePlate  string
	LicenseNumber string
}

// EmployeeSignupInput binds the new employee to a company.
type EmployeeSignupInput struct {
	SignupInput
	CompanyID    uint
	CostCenterID *uint
	Department   *string
	Phone        *string
}

// AuthService handles signup and login.
type AuthService interface {
	SignupAdmin(ctx context.Context, in SignupInput) (*model.User, error)
	SignupDriver(ctx context.Context, in DriverSignupInput) (*model.User, error)
	SignupEmployee(ctx context.Context, in EmployeeSignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, err error)
}

type authService struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	costCenters repository.CostCenterRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	tokenTTL    time.Duration
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	costCenters repository.CostCenterRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:       users,
		companies:   companies,
		costCenters: costCenters,
		hasher:      hasher,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
		logger:      resolveLogger(logger),
	}
}

func (s *authService) SignupAdmin(ctx context.Context, in SignupInput) (*model.User, error) {
	user, err := newUser(ctx, s.users, s.hasher, in, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("admin signed up", "user_id", user.ID)
	return user, nil
}

// SignupDriver creates the user and its driver profile together.
func (s *authService) SignupDriver(ctx context.Context, in DriverSignupInput) (*model.User, error) {
	user, err := newUser(ctx, s.users, s.hasher, in.SignupInput, model.RoleDriver)
	if err != nil {
		return nil, err
	}
	user.DriverProfile = &model.DriverProfile{
		VehicleModel:  strings.TrimSpace(in.VehicleModel),
		VehiclePlate:  strings.ToUpper(strings.TrimSpace(in.VehiclePlate)),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		Rating:        5.0,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("driver signed up", "user_id", user.ID)
	return user, nil
}

// SignupEmployee requires an existing company; an optional cost center must
// belong to that same company.
func (s *authService) SignupEmployee(ctx context.Context, in EmployeeSignupInput) (*model.User, error) {
	if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %d: %w", in.CompanyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	if err := checkCostCenter(ctx, s.costCenters, in.CompanyID, in.CostCenterID); err != nil {
		return nil, err
	}

	user, err := newUser(ctx, s.users, s.hasher, in.SignupInput, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	user.EmployeeProfile = &model.EmployeeProfile{
		CompanyID:    in.CompanyID,
		CostCenterID: in.CostCenterID,
		Department:   in.Department,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("employee signed up", "user_id", user.ID, "company_id", in.CompanyID)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login failed", "email", email, "reason", "unknown email")
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		s.logger.Warn("login failed", "email", email, "reason", "wrong password")
		return "", apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", apperrors.ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// newUser hashes the password and returns an unsaved active user after
// checking that the email is free.
func newUser(ctx context.Context, users repository.UserRepository, hasher PasswordHasher, in SignupInput, role model.Role) (*model.User, error) {
	email := normalizeEmail(in.Email)

	existing, err := users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	digest, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return &model.User{
		Email:          email,
		HashedPassword: digest,
		FullName:       strings.TrimSpace(in.FullName),
		Role:           role,
		IsActive:       true,
	}, nil
}

// checkCostCenter verifies that an optional cost center exists and belongs to companyID.
func checkCostCenter(ctx context.Context, costCenters repository.CostCenterRepository, companyID uint, costCenterID *uint) error {
	if costCenterID == nil {
		return nil
	}
	center, err := costCenters.FindByID(ctx, *costCenterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cost center %d: %w", *costCenterID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("find cost center: %w", err)
	}
	if center.CompanyID != companyID {
		return fmt.Errorf("cost center %d belongs to another company: %w", *costCenterID, apperrors.ErrForbidden)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
