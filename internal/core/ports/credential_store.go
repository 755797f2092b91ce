package ports

import "github.com/participa/citizen-portal/internal/core/domain"

// CredentialStore is the durable key-value home of the bearer token and the
// identity it was issued for. Implementations must treat the pair as one
// unit: Save writes both or neither, Clear removes both. Only the session
// service writes; every other component reads.
type CredentialStore interface {
	// Load returns the persisted credential, or nil when none is stored.
	Load() (*domain.Credential, error)
	// Save persists token and identity together.
	Save(cred *domain.Credential) error
	// Clear removes the stored credential. Clearing an empty store is a
	// no-op, not an error.
	Clear() error
}
