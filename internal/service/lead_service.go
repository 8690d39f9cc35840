package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

// LeadService captures website leads.
type LeadService interface {
	Create(ctx context.Context, fullName, email, phone string) (*model.Lead, error)
}

type leadService struct {
	repo   repository.LeadRepository
	logger *slog.Logger
}

// NewLeadService creates a lead service.
func NewLeadService(repo repository.LeadRepository, logger *slog.Logger) LeadService {
	return &leadService{repo: repo, logger: resolveLogger(logger)}
}

// Create stores a lead. The phone may be formatted but must hold 10 or 11 digits.
func (s *leadService) Create(ctx context.Context, fullName, email, phone string) (*model.Lead, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperrors.Invalid("full_name must not be empty")
	}
	if n := len(digitsOnly(phone)); n < 10 || n > 11 {
		return nil, apperrors.Invalid("phone must contain 10 or 11 digits")
	}
	email = normalizeEmail(email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrDuplicateLead
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check lead existence: %w", err)
	}

	lead := &model.Lead{FullName: fullName, Email: email, Phone: strings.TrimSpace(phone)}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.logger.Info("lead captured", "lead_id", lead.ID)
	return lead, nil
}
