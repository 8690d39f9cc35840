package repository

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// errUnscoped is returned when a company-owned collection is read without a company.
var errUnscoped = errors.New("company scope required")

// Page is an offset/limit window.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps the window to sane bounds.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return db.Offset(n.Skip).Limit(n.Limit)
}

// CompanyQuery reads rows owned by a single company. Repositories refuse to
// run it until a company has been set.
type CompanyQuery struct {
	Page
	CompanyID uint
}

// RestrictToCompany pins the query to companyID.
func (q *CompanyQuery) RestrictToCompany(companyID uint) {
	q.CompanyID = companyID
}

func (q CompanyQuery) scope(db *gorm.DB, column string) (*gorm.DB, error) {
	if q.CompanyID == 0 {
		return nil, errUnscoped
	}
	return q.Page.apply(db.Where(column+" = ?", q.CompanyID)), nil
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// translate maps a unique violation to dup and wraps anything else.
func translate(err error, dup error, op string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return dup
	}
	return fmt.Errorf("%s: %w", op, err)
}
