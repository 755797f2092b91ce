package domain

// Route is a client-side navigation target.
type Route string

const (
	RouteLogin           Route = "/login"
	RouteAdmin           Route = "/admin"
	RouteServiceProvider Route = "/service-provider"
	RouteCitizen         Route = "/citizen"
)

// RouteDecision is the outcome of evaluating one navigation attempt against
// the current session. Pending is the only non-terminal state; it resolves
// to exactly one of the other three once the session finishes loading.
type RouteDecision string

const (
	RoutePending          RouteDecision = "pending"
	RouteGranted          RouteDecision = "granted"
	RouteDeniedNoIdentity RouteDecision = "denied_no_identity"
	RouteDeniedWrongRole  RouteDecision = "denied_wrong_role"
)

// EvaluateRoute decides whether the current session may render a protected
// view. adminOnly marks views reserved for admin-equivalent roles. The
// result is a pure function of its inputs.
func EvaluateRoute(loading bool, user *User, adminOnly bool) RouteDecision {
	if loading {
		return RoutePending
	}
	if user == nil {
		return RouteDeniedNoIdentity
	}
	if adminOnly && !user.UserType.IsAdminEquivalent() {
		return RouteDeniedWrongRole
	}
	return RouteGranted
}

// RedirectFor returns the route a denied navigation lands on. Denials
// replace history so back-navigation does not return to the protected
// view; that mechanic belongs to the consumer, only the target is decided
// here. Granted and pending decisions have no redirect and return "".
func RedirectFor(d RouteDecision) Route {
	switch d {
	case RouteDeniedNoIdentity:
		return RouteLogin
	case RouteDeniedWrongRole:
		return RouteCitizen
	default:
		return ""
	}
}

// LandingRoute maps an identity to its default area: staff roles land on
// the admin panel, providers on their work queue, everyone else on the
// citizen portal. A nil identity lands on the login view. Total over any
// role value, including unrecognized ones.
func LandingRoute(user *User) Route {
	if user == nil {
		return RouteLogin
	}
	switch {
	case user.UserType.IsAdminEquivalent():
		return RouteAdmin
	case user.UserType == TypeServiceProvider:
		return RouteServiceProvider
	default:
		return RouteCitizen
	}
}
