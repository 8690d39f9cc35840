package model

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDriver   Role = "driver"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDriver, RoleEmployee:
		return true
	}
	return false
}

// User is the login identity shared by every role.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FullName       string    `json:"full_name" gorm:"size:255;not null"`
	Role           Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations. At most one is populated, selected by Role; use Profile() to read it.
	DriverProfile   *DriverProfile   `json:"driver_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	EmployeeProfile *EmployeeProfile `json:"employee_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName pins the users table name.
func (User) TableName() string { return "users" }

// Profile returns the role extension matching u.Role, or nil when the role
// carries none or the row is missing. A profile that does not match the
// role is never returned.
func (u *User) Profile() Profile {
	switch u.Role {
	case RoleDriver:
		if u.DriverProfile != nil {
			return u.DriverProfile
		}
	case RoleEmployee:
		if u.EmployeeProfile != nil {
			return u.EmployeeProfile
		}
	}
	return nil
}
