// internal/domain/merchant/entity.go
package merchant

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusOnboarding    Status = "onboarding"
	StatusPendingReview Status = "pending_review"
	StatusActive        Status = "active"
	StatusSuspended     Status = "suspended"
)

const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Merchant is a business account. Role admin marks platform operators.
type Merchant struct {
	ID           int64          `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
	Status       Status         `json:"status" db:"status"`
	BusinessName sql.NullString `json:"business_name,omitempty" db:"business_name"`
	Category     sql.NullString `json:"category,omitempty" db:"category"`
	Phone        sql.NullString `json:"phone,omitempty" db:"phone"`
	Description  sql.NullString `json:"description,omitempty" db:"description"`

	Address   sql.NullString  `json:"address,omitempty" db:"address"`
	City      sql.NullString  `json:"city,omitempty" db:"city"`
	Latitude  sql.NullFloat64 `json:"latitude,omitempty" db:"latitude"`
	Longitude sql.NullFloat64 `json:"longitude,omitempty" db:"longitude"`

	LastLogin   sql.NullTime `json:"last_login,omitempty" db:"last_login"`
	ApprovedAt  sql.NullTime `json:"approved_at,omitempty" db:"approved_at"`
	SuspendedAt sql.NullTime `json:"suspended_at,omitempty" db:"suspended_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// HasProfile reports whether the business profile step is done.
func (m *Merchant) HasProfile() bool {
	return m.BusinessName.Valid && m.BusinessName.String != "" && m.Category.Valid && m.Category.String != ""
}

// HasLocation reports whether the location step is done.
func (m *Merchant) HasLocation() bool {
	return m.Address.Valid && m.Address.String != "" && m.Latitude.Valid && m.Longitude.Valid
}

// CanPublish reports whether the merchant may publish deals.
func (m *Merchant) CanPublish() bool {
	return m.Status == StatusActive
}
