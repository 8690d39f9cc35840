package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"podium/internal/auth"
	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

const (
	LocationUpdated = "updated"
	LocationIgnored = "ignored"
)

// LocationUpdate reports the outcome of a position report.
type LocationUpdate struct {
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// UserService exposes user listing and driver telemetry.
type UserService interface {
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error)
	UpdateLocation(ctx context.Context, p *auth.Principal, lat, lng float64) (*LocationUpdate, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a user service.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{repo: repo, logger: resolveLogger(logger), now: time.Now}
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.Invalid(fmt.Sprintf("unknown role %q", filter.Role))
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateLocation stores the caller's own position. Only drivers report
// position; any other role gets an ignored status and nothing is written.
func (s *userService) UpdateLocation(ctx context.Context, p *auth.Principal, lat, lng float64) (*LocationUpdate, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.Invalid("lat must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, apperrors.Invalid("lng must be between -180 and 180")
	}
	if p.Role != model.RoleDriver {
		return &LocationUpdate{Status: LocationIgnored}, nil
	}
	if _, ok := p.Driver(); !ok {
		return nil, apperrors.ErrProfileMissing
	}

	at := s.now().UTC()
	rows, err := s.repo.UpdateDriverLocation(ctx, p.ID, lat, lng, at)
	if err != nil {
		return nil, fmt.Errorf("update driver location: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrNotFound
	}
	s.logger.Debug("driver location updated", "user_id", p.ID)
	return &LocationUpdate{Status: LocationUpdated, Timestamp: &at}, nil
}
