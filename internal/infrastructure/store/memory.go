package store

import (
	"sync"

	"github.com/participa/citizen-portal/internal/core/domain"
)

// MemoryStore is a credential store with no persistence. Sessions last
// exactly as long as the process.
type MemoryStore struct {
	mu   sync.Mutex
	cred *domain.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil, nil
	}
	clone := *s.cred
	return &clone, nil
}

func (s *MemoryStore) Save(cred *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *cred
	s.cred = &clone
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
