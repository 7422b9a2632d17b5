package model

import "time"

// Roles a user can hold.
const (
	RoleGeneral = "GENERAL"
	RoleAdmin   = "ADMIN"
)

// User is a registered account. PasswordHash is empty for accounts created
// through Google sign-in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"-"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"-"`
	RegisteredAt time.Time `json:"-"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
