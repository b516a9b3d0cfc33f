package domain

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleEditor   = "EDITOR"
	RoleInactive = "INACTIVE"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleEditor || s == RoleInactive
}

// User is an operator account of the billing panel.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor identifies the authenticated user performing an operation. It is
// extracted from the session token and passed down to every mutating call.
type Actor struct {
	ID   string
	Name string
	Role string
}
