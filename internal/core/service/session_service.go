package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/core/domain"
	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/metrics"
)

// expiryBuffer rejects tokens this close to expiry during restore, so a
// session is not resurrected just to die on its first real request.
const expiryBuffer = 30 * time.Second

// Session implements ports.SessionService. It owns the credential and
// identity exclusively: every mutation goes through its four operations,
// every other component only reads.
type Session struct {
	client ports.APIClient
	creds  ports.CredentialStore
	logger zerolog.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
}

// authResponse is the body of a successful login or registration.
type authResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// NewSession creates a Session. Loading starts true and resolves when
// Initialize completes.
func NewSession(client ports.APIClient, creds ports.CredentialStore, logger zerolog.Logger) *Session {
	return &Session{
		client:  client,
		creds:   creds,
		logger:  logger.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// Initialize restores a persisted session. The persisted identity is
// published optimistically first, then revalidated once against the profile
// endpoint; any failure clears both halves of the credential. Loading
// resolves to false in every exit path.
func (s *Session) Initialize(ctx context.Context) {
	defer s.finishLoading()

	cred, err := s.creds.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable credential")
		s.clear()
		metrics.SessionRestoresTotal.WithLabelValues("rejected").Inc()
		return
	}
	if cred == nil {
		metrics.SessionRestoresTotal.WithLabelValues("none").Inc()
		return
	}

	s.setUser(cred.User)

	if tokenExpired(cred.Token) {
		s.logger.Info().Str("email", cred.User.Email).Msg("persisted token expired, signing out")
		s.clear()
		metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
		return
	}

	if err := s.client.Get(ctx, "/auth/profile", nil); err != nil {
		s.logger.Info().Err(err).Msg("token revalidation failed, signing out")
		s.clear()
		metrics.SessionRestoresTotal.WithLabelValues("rejected").Inc()
		return
	}

	s.logger.Info().
		Str("email", cred.User.Email).
		Str("user_type", string(cred.User.UserType)).
		Msg("session restored")
	metrics.SessionRestoresTotal.WithLabelValues("ok").Inc()
}

// Login authenticates against the backend. On success both credential and
// identity are persisted together. Failures are returned as data with an
// inline-displayable message and leave all state untouched.
func (s *Session) Login(ctx context.Context, in ports.LoginInput) ports.AuthResult {
	if msg := validateInput(in); msg != "" {
		return ports.AuthResult{Message: msg}
	}

	var resp authResponse
	if err := s.client.Post(ctx, "/auth/login", in, &resp); err != nil {
		s.logger.Debug().Err(err).Str("email", in.Email).Msg("login rejected")
		return ports.AuthResult{Message: ports.ErrorMessage(err, "login failed, please try again")}
	}

	return s.adoptSession(resp)
}

// Register creates an account, then behaves exactly like Login.
func (s *Session) Register(ctx context.Context, in ports.RegisterInput) ports.AuthResult {
	if msg := validateInput(in); msg != "" {
		return ports.AuthResult{Message: msg}
	}
	if in.UserType == "" {
		in.UserType = string(domain.TypeCitizen)
	}

	var resp authResponse
	if err := s.client.Post(ctx, "/auth/register", in, &resp); err != nil {
		s.logger.Debug().Err(err).Str("email", in.Email).Msg("registration rejected")
		return ports.AuthResult{Message: ports.ErrorMessage(err, "registration failed, please try again")}
	}

	return s.adoptSession(resp)
}

// adoptSession persists and publishes the identity from an auth response.
func (s *Session) adoptSession(resp authResponse) ports.AuthResult {
	if resp.AccessToken == "" || resp.User == nil {
		return ports.AuthResult{Message: "unexpected response from server"}
	}

	cred := &domain.Credential{Token: resp.AccessToken, User: resp.User}
	if err := s.creds.Save(cred); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist credential")
		return ports.AuthResult{Message: "could not persist session, please try again"}
	}

	s.setUser(resp.User)
	s.logger.Info().
		Str("email", resp.User.Email).
		Str("user_type", string(resp.User.UserType)).
		Msg("signed in")
	return ports.AuthResult{Success: true, User: resp.User}
}

// Logout clears the persisted credential and the identity unconditionally.
// Logging out while signed out is a no-op.
func (s *Session) Logout() {
	s.clear()
	s.logger.Info().Msg("signed out")
}

func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// GuardRoute evaluates a navigation attempt against the current session.
// The transport clears the credential store on a 401 without touching this
// service, so the guard re-checks the store before deciding: a cleared
// credential signs the in-memory identity out on the next evaluation.
func (s *Session) GuardRoute(adminOnly bool) domain.RouteDecision {
	s.syncWithStore()
	s.mu.RLock()
	loading, user := s.loading, s.user
	s.mu.RUnlock()
	return domain.EvaluateRoute(loading, user, adminOnly)
}

// syncWithStore drops the in-memory identity when the persisted credential
// disappeared underneath it.
func (s *Session) syncWithStore() {
	if s.CurrentUser() == nil {
		return
	}
	cred, err := s.creds.Load()
	if err == nil && cred == nil {
		s.logger.Info().Msg("credential revoked, signing out")
		s.setUser(nil)
	}
}

// LandingRoute returns the default area for the current identity.
func (s *Session) LandingRoute() domain.Route {
	return domain.LandingRoute(s.CurrentUser())
}

func (s *Session) setUser(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// clear drops both halves of the credential together.
func (s *Session) clear() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear credential store")
	}
	s.setUser(nil)
}

// tokenExpired reports whether the bearer token's exp claim is in the past
// (with a small buffer). The client holds no signing key, so the claims are
// read without verification; a token that cannot be parsed is left for the
// server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Add(expiryBuffer).After(exp.Time)
}
