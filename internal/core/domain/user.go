package domain

import (
	"errors"
	"time"
)

// UserType is the role an authenticated account holds in the portal.
type UserType string

const (
	TypeCitizen           UserType = "citizen"
	TypeAdmin             UserType = "admin"
	TypeDepartmentManager UserType = "department_manager"
	TypeServiceProvider   UserType = "service_provider"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("not authenticated")

// IsAdminEquivalent reports whether the role grants access to the
// administrative area. Department managers share the admin panel with
// full admins; they only differ in which occurrences they can act on.
func (t UserType) IsAdminEquivalent() bool {
	return t == TypeAdmin || t == TypeDepartmentManager
}

// Department is the municipal unit a staff account belongs to.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the authenticated identity held client-side. It is only ever
// populated from a server response (login, register, profile) and is
// persisted next to the bearer token so a reload starts signed in.
type User struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone,omitempty"`
	UserType   UserType    `json:"user_type"`
	Department *Department `json:"department,omitempty"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
}
