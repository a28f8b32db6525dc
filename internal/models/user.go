package models

import (
	"strings"
	"time"

	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// Role is the closed set of account kinds
type Role string

const (
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team_member"
	RoleCustomer   Role = "customer"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleManager, RoleTeamMember, RoleCustomer}

// ParseRole maps user input to a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleTeamMember, RoleCustomer:
		return true
	}
	return false
}

// Theme is the UI theme preference stored on the account
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is an account of any role
type User struct {
	ID           types.UserID `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Avatar       string       `json:"avatar,omitempty"`
	Theme        Theme        `json:"theme"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsTeamMember() bool {
	return u.Role == RoleTeamMember
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// GetID returns the numeric ID for quiet CLI output
func (u *User) GetID() int {
	return int(u.ID)
}
