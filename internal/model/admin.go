package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminRole orders back-office privileges. Role checks are coarse: any
// authenticated admin may use the back office.
type AdminRole string

const (
	RoleOwner   AdminRole = "owner"
	RoleAdmin   AdminRole = "admin"
	RoleManager AdminRole = "manager"
	RoleStaff   AdminRole = "staff"
)

// ValidAdminRole reports whether r is a known role.
func ValidAdminRole(r AdminRole) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Admin is a back-office account. PasswordHash and the reset token never
// appear in JSON responses.
type Admin struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	Email                string     `json:"email" db:"email"`
	PasswordHash         string     `json:"-" db:"password_hash"`
	Name                 string     `json:"name" db:"name"`
	Role                 AdminRole  `json:"role" db:"role"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// AdminLoginRequest is the payload for POST /api/admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginResponse returns a bearer token and the account summary.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin"`
}

// CreateAdminRequest is the payload for POST /api/admin/admins.
type CreateAdminRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     AdminRole `json:"role"`
}
