package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
	"podium/internal/repository"
)

const (
	pricingCacheTTL    = 10 * time.Minute
	pricingCachePrefix = "pricing:rules:"
	pricingCacheIndex  = "pricing:rules:index"
)

// Cache is the subset of the redis wrapper used by services.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PricingTierInput is one distance band of a new rule.
type PricingTierInput struct {
	MinDistanceKm float64
	MaxDistanceKm float64
	FixedPrice    decimal.Decimal
}

// PricingRuleInput is the payload for a new pricing rule.
type PricingRuleInput struct {
	Name                 string
	Category             string
	IsTiered             bool
	PricePerKmAfterTiers decimal.Decimal
	IsActive             bool
	IsDefault            bool
	Tiers                []PricingTierInput
}

// PricingService manages price tables and quotes trips.
type PricingService interface {
	Create(ctx context.Context, in PricingRuleInput) (*model.PricingRule, error)
	List(ctx context.Context, page repository.Page) ([]model.PricingRule, error)
	Quote(ctx context.Context, distanceKm float64) (decimal.Decimal, error)
}

type pricingService struct {
	repo   repository.PricingRepository
	cache  Cache
	logger *slog.Logger
}

// NewPricingService creates a pricing service.
func NewPricingService(repo repository.PricingRepository, cache Cache, logger *slog.Logger) PricingService {
	return &pricingService{repo: repo, cache: cache, logger: resolveLogger(logger)}
}

// Create stores a rule with its tiers. Marking it default clears the flag
// on every other rule in the same transaction.
func (s *pricingService) Create(ctx context.Context, in PricingRuleInput) (*model.PricingRule, error) {
	rule, err := buildPricingRule(in)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.PricingRepository) error {
		if rule.IsDefault {
			if err := repo.ClearDefault(ctx); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		return repo.Create(ctx, rule)
	})
	if err != nil {
		return nil, fmt.Errorf("create pricing rule: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("pricing rule created", "rule_id", rule.ID, "default", rule.IsDefault)
	return rule, nil
}

// List returns rules with tiers, served from cache when possible.
func (s *pricingService) List(ctx context.Context, page repository.Page) ([]model.PricingRule, error) {
	page = page.Normalize()
	key := fmt.Sprintf("%s%d:%d", pricingCachePrefix, page.Skip, page.Limit)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.PricingRule
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	rules, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}

	if payload, err := json.Marshal(rules); err == nil {
		_ = s.cache.Set(ctx, key, payload, pricingCacheTTL)
		s.remember(ctx, key)
	}
	return rules, nil
}

// Quote prices distanceKm with the default rule.
func (s *pricingService) Quote(ctx context.Context, distanceKm float64) (decimal.Decimal, error) {
	if distanceKm <= 0 {
		return decimal.Zero, apperrors.Invalid("distance_km must be positive")
	}
	rule, err := s.repo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperrors.ErrNoPricingRule
		}
		return decimal.Zero, fmt.Errorf("find default rule: %w", err)
	}
	return quoteFromRule(rule, distanceKm), nil
}

// quoteFromRule returns the fixed price of the first tier reaching
// distanceKm. Past the last tier, every extra kilometre is charged at
// PricePerKmAfterTiers on top of the last tier's price.
func quoteFromRule(rule *model.PricingRule, distanceKm float64) decimal.Decimal {
	d := decimal.NewFromFloat(distanceKm)
	if len(rule.Tiers) == 0 {
		return d.Mul(rule.PricePerKmAfterTiers).Round(2)
	}

	tiers := make([]model.PricingTier, len(rule.Tiers))
	copy(tiers, rule.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MaxDistanceKm < tiers[j].MaxDistanceKm })

	for _, tier := range tiers {
		if distanceKm <= tier.MaxDistanceKm {
			return tier.FixedPrice.Round(2)
		}
	}

	last := tiers[len(tiers)-1]
	extra := d.Sub(decimal.NewFromFloat(last.MaxDistanceKm))
	return last.FixedPrice.Add(extra.Mul(rule.PricePerKmAfterTiers)).Round(2)
}

func buildPricingRule(in PricingRuleInput) (*model.PricingRule, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Invalid("name must not be empty")
	}
	if in.PricePerKmAfterTiers.IsNegative() {
		return nil, apperrors.Invalid("price_per_km_after_tiers must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "B2B"
	}

	rule := &model.PricingRule{
		Name:                 name,
		Category:             category,
		IsTiered:             in.IsTiered,
		PricePerKmAfterTiers: in.PricePerKmAfterTiers,
		IsActive:             in.IsActive,
		IsDefault:            in.IsDefault,
	}
	for i, t := range in.Tiers {
		if t.MinDistanceKm < 0 || t.MaxDistanceKm <= t.MinDistanceKm {
			return nil, apperrors.Invalid(fmt.Sprintf("tier %d: max_distance_km must exceed min_distance_km", i))
		}
		if t.FixedPrice.IsNegative() {
			return nil, apperrors.Invalid(fmt.Sprintf("tier %d: fixed_price must not be negative", i))
		}
		rule.Tiers = append(rule.Tiers, model.PricingTier{
			MinDistanceKm: t.MinDistanceKm,
			MaxDistanceKm: t.MaxDistanceKm,
			FixedPrice:    t.FixedPrice,
		})
	}
	return rule, nil
}

// remember records a cached page key so Create can drop every page.
func (s *pricingService) remember(ctx context.Context, key string) {
	var keys []string
	if data, _ := s.cache.Get(ctx, pricingCacheIndex); data != nil {
		_ = json.Unmarshal(data, &keys)
	}
	for _, k := range keys {
		if k == key {
			return
		}
	}
	keys = append(keys, key)
	if payload, err := json.Marshal(keys); err == nil {
		_ = s.cache.Set(ctx, pricingCacheIndex, payload, pricingCacheTTL)
	}
}

func (s *pricingService) invalidate(ctx context.Context) {
	var keys []string
	if data, _ := s.cache.Get(ctx, pricingCacheIndex); data != nil {
		_ = json.Unmarshal(data, &keys)
	}
	for _, k := range keys {
		_ = s.cache.Delete(ctx, k)
	}
	_ = s.cache.Delete(ctx, pricingCacheIndex)
}
