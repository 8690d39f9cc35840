package auth

import "podium/internal/model"

// Principal is the caller resolved for one request.
type Principal struct {
	ID       uint
	Email    string
	FullName string
	Role     model.Role
	IsActive bool

	profile model.Profile
}

// NewPrincipal builds a principal from a loaded user. Only the profile that
// matches the user's role is attached.
func NewPrincipal(user *model.User) *Principal {
	return &Principal{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
		profile:  user.Profile(),
	}
}

// Driver returns the driver profile, if the principal is a driver that has one.
func (p *Principal) Driver() (*model.DriverProfile, bool) {
	d, ok := p.profile.(*model.DriverProfile)
	return d, ok && d != nil
}

// Employee returns the employee profile, if the principal is an employee that has one.
func (p *Principal) Employee() (*model.EmployeeProfile, bool) {
	e, ok := p.profile.(*model.EmployeeProfile)
	return e, ok && e != nil
}
