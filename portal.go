// Package portal wires the citizen-portal client runtime together: the
// durable session store, the authenticated HTTP client, route guarding,
// and the polling feed components. Pages and widgets consume the runtime's
// services; they never talk to the backend or the credential store
// directly.
package portal

import (
	"github.com/rs/zerolog"

	"github.com/participa/citizen-portal/internal/core/domain"
	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/core/service"
	"github.com/participa/citizen-portal/internal/infrastructure/api"
	"github.com/participa/citizen-portal/internal/infrastructure/store"
	"github.com/participa/citizen-portal/internal/pkg/config"
	"github.com/participa/citizen-portal/pkg/logger"
)

// Consumer-facing names for the core types, so embedding applications do
// not reach into internal packages.
type (
	User          = domain.User
	Notification  = domain.Notification
	Message       = domain.Message
	Route         = domain.Route
	RouteDecision = domain.RouteDecision
	LoginInput    = ports.LoginInput
	RegisterInput = ports.RegisterInput
	AuthResult    = ports.AuthResult
)

// Runtime owns one user session and the shared authenticated client built
// on top of it.
type Runtime struct {
	cfg     *config.Config
	logger  zerolog.Logger
	client  ports.APIClient
	session *service.Session
}

// New builds a Runtime from cfg with the default file-backed credential
// store. Call Session().Initialize once at startup before rendering
// guarded views.
func New(cfg *config.Config) *Runtime {
	return NewWithStore(cfg, store.NewFileStore(cfg.StateFile))
}

// NewWithStore builds a Runtime persisting credentials through creds.
// Embedders with their own secure storage (and tests) use this directly.
func NewWithStore(cfg *config.Config, creds ports.CredentialStore) *Runtime {
	log := logger.New(logger.Options{Level: cfg.LogLevel})
	client := api.NewClient(cfg.APIBaseURL, creds, cfg.HTTPTimeout, log)

	return &Runtime{
		cfg:     cfg,
		logger:  log,
		client:  client,
		session: service.NewSession(client, creds, log),
	}
}

// Session returns the session service: identity, auth operations, route
// guarding.
func (r *Runtime) Session() ports.SessionService { return r.session }

// Client returns the shared authenticated API client for page-level data
// fetches outside the runtime's own feeds.
func (r *Runtime) Client() ports.APIClient { return r.client }

// Notifications returns a new notification feed for the current user,
// polling at the configured interval once started.
func (r *Runtime) Notifications() *service.NotificationFeed {
	return service.NewNotificationFeed(r.client, r.session, r.cfg.NotificationPoll, r.logger)
}

// Chat returns a new chat thread for one occurrence, polling at the
// configured interval once started.
func (r *Runtime) Chat(occurrenceID int) *service.ChatThread {
	return service.NewChatThread(r.client, r.session, occurrenceID, r.cfg.ChatPoll, r.logger)
}
