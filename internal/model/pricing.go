package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingRule is a fixed price table made of distance tiers.
type PricingRule struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	Name                 string          `json:"name" gorm:"size:255;not null;index"`
	Category             string          `json:"category" gorm:"size:50;not null;default:'B2B'"`
	IsTiered             bool            `json:"is_tiered" gorm:"not null;default:true"`
	PricePerKmAfterTiers decimal.Decimal `json:"price_per_km_after_tiers" gorm:"type:decimal(20,2);not null;default:2.5"`
	IsActive             bool            `json:"is_active" gorm:"not null;default:true"`
	IsDefault            bool            `json:"is_default" gorm:"not null;default:false;index"`
	CreatedAt            time.Time       `json:"created_at"`

	Tiers []PricingTier `json:"tiers" gorm:"foreignKey:PricingRuleID;constraint:OnDelete:CASCADE"`
}

func (PricingRule) TableName() string { return "pricingrule" }

// PricingTier prices every distance in [MinDistanceKm, MaxDistanceKm] at FixedPrice.
type PricingTier struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	PricingRuleID uint            `json:"pricing_rule_id" gorm:"not null;index"`
	MinDistanceKm float64         `json:"min_distance_km" gorm:"not null"`
	MaxDistanceKm float64         `json:"max_distance_km" gorm:"not null"`
	FixedPrice    decimal.Decimal `json:"fixed_price" gorm:"type:decimal(20,2);not null"`
}

func (PricingTier) TableName() string { return "pricingtier" }
