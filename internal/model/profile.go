package model

import "time"

// Profile is the role-specific extension of a User.
type Profile interface {
	ProfileRole() Role
}

// DriverProfile carries vehicle data and the last reported position of a driver.
type DriverProfile struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	VehicleModel   string     `json:"vehicle_model" gorm:"size:120;not null"`
	VehiclePlate   string     `json:"vehicle_plate" gorm:"size:20;not null"`
	LicenseNumber  string     `json:"license_number" gorm:"size:40;not null"`
	Rating         float64    `json:"rating" gorm:"not null;default:5"`
	CurrentLat     *float64   `json:"current_lat"`
	CurrentLng     *float64   `json:"current_lng"`
	LastLocationAt *time.Time `json:"last_location_at"`
}

func (DriverProfile) TableName() string { return "driver_profiles" }

func (DriverProfile) ProfileRole() Role { return RoleDriver }

// EmployeeProfile ties an employee to the company that owns them.
type EmployeeProfile struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	UserID       uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyID    uint    `json:"company_id" gorm:"not null;index"`
	CostCenterID *uint   `json:"cost_center_id" gorm:"index"`
	Department   *string `json:"department" gorm:"size:120"`
	Phone        *string `json:"phone" gorm:"size:30"`

	Company    *Company    `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT"`
	CostCenter *CostCenter `json:"-" gorm:"foreignKey:CostCenterID;constraint:OnDelete:SET NULL"`
	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (EmployeeProfile) TableName() string { return "employee_profiles" }

func (EmployeeProfile) ProfileRole() Role { return RoleEmployee }

// OwningCompanyID implements the tenant ownership contract.
func (p EmployeeProfile) OwningCompanyID() uint { return p.CompanyID }
