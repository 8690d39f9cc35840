package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideStatus is a free-text lifecycle marker; no transitions are enforced.
type RideStatus string

const (
	RideRequested  RideStatus = "requested"
	RideAccepted   RideStatus = "accepted"
	RideInProgress RideStatus = "in_progress"
	RideCompleted  RideStatus = "completed"
	RideCancelled  RideStatus = "cancelled"
)

// Ride is a trip billed to a cost center. PriceFixed is frozen at creation.
type Ride struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Status        RideStatus      `json:"status" gorm:"type:varchar(20);not null;default:'requested'"`
	OriginLat     float64         `json:"origin_lat" gorm:"not null"`
	OriginLng     float64         `json:"origin_lng" gorm:"not null"`
	OriginAddress string          `json:"origin_address" gorm:"size:255;not null"`
	DestLat       float64         `json:"dest_lat" gorm:"not null"`
	DestLng       float64         `json:"dest_lng" gorm:"not null"`
	DestAddress   string          `json:"dest_address" gorm:"size:255;not null"`
	DistanceKm    float64         `json:"distance_km" gorm:"not null"`
	PriceFixed    decimal.Decimal `json:"price_fixed" gorm:"type:decimal(20,2);not null"`
	PassengerID   uint            `json:"passenger_id" gorm:"not null;index"`
	DriverID      *uint           `json:"driver_id" gorm:"index"`
	CostCenterID  uint            `json:"cost_center_id" gorm:"not null;index"`
	// CompanyID is copied from the cost center when the ride is written.
	CompanyID uint `json:"company_id" gorm:"not null;index"`

	Passenger  *User       `json:"-" gorm:"foreignKey:PassengerID"`
	Driver     *User       `json:"-" gorm:"foreignKey:DriverID"`
	CostCenter *CostCenter `json:"-" gorm:"foreignKey:CostCenterID"`
	Company    *Company    `json:"-" gorm:"foreignKey:CompanyID"`
}

func (Ride) TableName() string { return "ride" }

// OwningCompanyID implements the tenant ownership contract.
func (r Ride) OwningCompanyID() uint { return r.CompanyID }
