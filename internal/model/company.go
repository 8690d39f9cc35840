package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus of a client company.
type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractSuspended ContractStatus = "suspended"
)

// Company is a B2B client and the tenant boundary for its cost centers,
// employees and rides.
type Company struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	TaxID          string         `json:"tax_id" gorm:"uniqueIndex;size:32;not null"`
	ContractStatus ContractStatus `json:"contract_status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Company) TableName() string { return "company" }

// CostCenter is a budget bucket inside one company.
type CostCenter struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	CompanyID   uint                `json:"company_id" gorm:"not null;index"`
	Name        string              `json:"name" gorm:"size:255;not null"`
	Code        string              `json:"code" gorm:"size:50;not null"`
	BudgetLimit decimal.NullDecimal `json:"budget_limit" gorm:"type:decimal(20,2)"`
	IsActive    bool                `json:"is_active" gorm:"not null;default:true"`

	Company *Company `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

func (CostCenter) TableName() string { return "costcenter" }

// OwningCompanyID implements the tenant ownership contract.
func (c CostCenter) OwningCompanyID() uint { return c.CompanyID }
