package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

// CompanyService manages client companies.
type CompanyService interface {
	Create(ctx context.Context, name, taxID string) (*model.Company, error)
	List(ctx context.Context, page repository.Page) ([]model.Company, error)
}

type companyService struct {
	repo   repository.CompanyRepository
	logger *slog.Logger
}

// NewCompanyService creates a company service.
func NewCompanyService(repo repository.CompanyRepository, logger *slog.Logger) CompanyService {
	return &companyService{repo: repo, logger: resolveLogger(logger)}
}

func (s *companyService) Create(ctx context.Context, name, taxID string) (*model.Company, error) {
	name = strings.TrimSpace(name)
	taxID = digitsOnly(taxID)
	if name == "" {
		return nil, apperrors.Invalid("name must not be empty")
	}
	if taxID == "" {
		return nil, apperrors.Invalid("tax_id must contain digits")
	}

	company := &model.Company{
		Name:           name,
		TaxID:          taxID,
		ContractStatus: model.ContractActive,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info("company created", "company_id", company.ID)
	return company, nil
}

func (s *companyService) List(ctx context.Context, page repository.Page) ([]model.Company, error) {
	companies, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
