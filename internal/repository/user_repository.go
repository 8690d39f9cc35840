package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// UserFilter narrows a user listing.
type UserFilter struct {
	Page
	Role model.Role
}

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDWithProfiles(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	ListEmployees(ctx context.Context, q CompanyQuery) ([]model.EmployeeProfile, error)
	CountActiveByRole(ctx context.Context, role model.Role) (int64, error)
	CountActiveEmployees(ctx context.Context, companyID uint) (int64, error)
	UpdateDriverLocation(ctx context.Context, userID uint, lat, lng float64, at time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and whichever profile is attached in one statement
// batch. A taken email is reported as ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return translate(err, apperrors.ErrDuplicateEmail, "create user")
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithProfiles loads a user with both profile associations.
func (r *userRepository) FindByIDWithProfiles(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("DriverProfile").
		Preload("EmployeeProfile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users with their driver profile, ordered by id.
func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Preload("DriverProfile").Order("id")
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var users []model.User
	if err := filter.Page.apply(q).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListEmployees returns the employee profiles of one company with their user.
func (r *userRepository) ListEmployees(ctx context.Context, q CompanyQuery) ([]model.EmployeeProfile, error) {
	db, err := q.scope(r.db.WithContext(ctx).Model(&model.EmployeeProfile{}), "company_id")
	if err != nil {
		return nil, err
	}

	var profiles []model.EmployeeProfile
	if err := db.Preload("User").Order("id").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *userRepository) CountActiveByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&count).Error
	return count, err
}

// CountActiveEmployees counts active employee users of one company.
func (r *userRepository) CountActiveEmployees(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN employee_profiles ON employee_profiles.user_id = users.id").
		Where("employee_profiles.company_id = ?", companyID).
		Where("users.role = ? AND users.is_active = ?", model.RoleEmployee, true).
		Count(&count).Error
	return count, err
}

// UpdateDriverLocation overwrites the position of the driver profile owned by
// userID and returns the number of rows touched.
func (r *userRepository) UpdateDriverLocation(ctx context.Context, userID uint, lat, lng float64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.DriverProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_lat":      lat,
			"current_lng":      lng,
			"last_location_at": at,
		})
	return res.RowsAffected, res.Error
}
