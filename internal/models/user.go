package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The dashboard client does arithmetic on balances and prices, so they go out as numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// ParseRole accepts both the canonical names and the lower-case ones the client sends
// ("super_admin", "admin", "user").
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

type User struct {
	ID            int64           `json:"id"`
	Username      string          `json:"username"`
	PasswordHash  string          `json:"-"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Mobile        string          `json:"mobile,omitempty"`
	Role          Role            `json:"role"`
	OwnerAdminID  *int64          `json:"ownerAdminId"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	Status        UserStatus      `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// AdminDetails is an admin together with the number of users it manages.
type AdminDetails struct {
	Admin     *User `json:"admin"`
	UserCount int64 `json:"userCount"`
}
