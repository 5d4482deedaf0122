package models

import "time"

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RoleLibrarian = "bibliotecario"
	RoleUser      = "usuario"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"nombre,omitempty"`
	Role         string    `json:"rol"`
	Active       bool      `json:"activo"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// UserUpdate holds the fields a user may change on their own account.
type UserUpdate struct {
	Email    *string `json:"email"`
	Name     *string `json:"nombre"`
	Password *string `json:"password"`
}

// UserAdminUpdate extends UserUpdate with the fields only an admin may touch.
type UserAdminUpdate struct {
	UserUpdate
	Role   *string `json:"rol"`
	Active *bool   `json:"activo"`
}
