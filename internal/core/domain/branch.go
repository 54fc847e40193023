// internal/core/domain/branch.go
package domain

import "fmt"

// Role represents the access level attached to a session identity.
type Role string

// Role constants
const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cajero"
)

// Branch is a physical sales location with its own inventory and login
// credentials. The ID is immutable and is the only key used by inventory
// and sale relations; the display name is denormalized onto sales at
// checkout time and never rewritten afterwards.
type Branch struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manager      string `json:"manager"`
	Address      string `json:"address"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Validate performs domain validation on the branch.
func (b *Branch) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: branch name is required", ErrInvalidOperation)
	}
	if b.Username == "" {
		return fmt.Errorf("%w: branch username is required", ErrInvalidOperation)
	}
	return nil
}

// Identity is the authenticated principal consumed by the HTTP layer.
// For branch logins ID is the branch ID; the superuser carries a fixed ID.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the identity may manage branches.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
