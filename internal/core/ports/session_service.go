package ports

import (
	"context"

	"github.com/participa/citizen-portal/internal/core/domain"
)

// LoginInput carries the credentials submitted by the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput carries the profile submitted by the registration form.
// UserType defaults to citizen when empty; staff accounts are provisioned
// server-side, not through self-registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	UserType string `json:"user_type,omitempty" validate:"omitempty,oneof=citizen admin department_manager service_provider"`
}

// AuthResult is the outcome of a login or registration attempt. Failures
// are data, not errors: Message holds the text the form shows inline.
type AuthResult struct {
	Success bool
	User    *domain.User
	Message string
}

// IdentitySource is the read side of the session: who, if anyone, is
// signed in right now. Feed components depend on this rather than the full
// SessionService.
type IdentitySource interface {
	// CurrentUser returns the identity, or nil when signed out.
	CurrentUser() *domain.User
}

// SessionService is the single source of truth for the current identity.
type SessionService interface {
	// Initialize restores a persisted session and revalidates it against
	// the profile endpoint. It must be called once at startup; Loading
	// reports true until it completes.
	Initialize(ctx context.Context)
	Login(ctx context.Context, in LoginInput) AuthResult
	Register(ctx context.Context, in RegisterInput) AuthResult
	// Logout clears the persisted credential and identity unconditionally.
	Logout()

	// CurrentUser returns the identity, or nil when signed out.
	CurrentUser() *domain.User
	// Loading reports whether startup revalidation is still in flight.
	Loading() bool
	IsAuthenticated() bool

	// GuardRoute evaluates a navigation attempt against the session.
	GuardRoute(adminOnly bool) domain.RouteDecision
	// LandingRoute returns the default area for the current identity.
	LandingRoute() domain.Route
}
