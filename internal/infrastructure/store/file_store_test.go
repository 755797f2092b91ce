package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/participa/citizen-portal/internal/core/domain"
)

func sampleCredential() *domain.Credential {
	return &domain.Credential{
		Token: "tok-xyz",
		User: &domain.User{
			ID:       3,
			Name:     "Pedro Lima",
			Email:    "pedro@example.com",
			UserType: domain.TypeServiceProvider,
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	s := NewFileStore(path)

	if err := s.Save(sampleCredential()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got == nil || got.Token != "tok-xyz" {
		t.Fatalf("unexpected credential: %+v", got)
	}
	if got.User == nil || got.User.Email != "pedro@example.com" || got.User.UserType != domain.TypeServiceProvider {
		t.Fatalf("identity did not survive persistence: %+v", got.User)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	got, err := s.Load()
	if err != nil {
		t.Fatalf("missing file is not an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil credential, got %+v", got)
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if err := s.Clear(); err != nil {
		t.Fatalf("clearing an empty store must succeed: %v", err)
	}

	if err := s.Save(sampleCredential()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear must succeed: %v", err)
	}

	got, err := s.Load()
	if err != nil || got != nil {
		t.Fatalf("expected empty store, got %+v (err %v)", got, err)
	}
}

func TestFileStore_RejectsIncompleteCredential(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	if err := s.Save(&domain.Credential{Token: "tok-only"}); err == nil {
		t.Fatal("token without identity must be rejected")
	}
	if err := s.Save(&domain.Credential{User: sampleCredential().User}); err == nil {
		t.Fatal("identity without token must be rejected")
	}

	got, err := s.Load()
	if err != nil || got != nil {
		t.Fatalf("nothing may have been persisted, got %+v (err %v)", got, err)
	}
}

func TestFileStore_TreatsPartialFileAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"token":"tok-only"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := NewFileStore(path)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("half a credential must read as no credential, got %+v", got)
	}
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := NewFileStore(path)
	if _, err := s.Load(); err == nil {
		t.Fatal("corrupt file must surface an error")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Load()
	if err != nil || got != nil {
		t.Fatalf("expected empty store, got %+v (err %v)", got, err)
	}

	if err := s.Save(sampleCredential()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err = s.Load()
	if err != nil || got == nil || got.Token != "tok-xyz" {
		t.Fatalf("unexpected credential: %+v (err %v)", got, err)
	}

	// Load hands out a copy, not the stored value.
	got.Token = "mutated"
	again, _ := s.Load()
	if again.Token != "tok-xyz" {
		t.Fatal("store must not expose its internal credential")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	got, err = s.Load()
	if err != nil || got != nil {
		t.Fatalf("expected cleared store, got %+v (err %v)", got, err)
	}
}
