package store

import (
	"sync"
	"time"

	"github.com/slingshot/slingshot/internal/models"
)

// MemoryStore provides an in-memory credential and OAuth state store.
// It is thread-safe and supports concurrent access.
type MemoryStore struct {
	mu          sync.RWMutex
	credentials map[string]*models.Credential // key: userID/provider
	states      map[string]oauthState         // key: state token
}

type oauthState struct {
	userID    string
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		credentials: make(map[string]*models.Credential),
		states:      make(map[string]oauthState),
	}
}

func credentialKey(userID string, provider models.Provider) string {
	return userID + "/" + string(provider)
}

// Credential operations

// SetCredential stores or replaces the credential for a user and provider.
// Last write wins.
func (s *MemoryStore) SetCredential(cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *cred
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = time.Now().UTC()
	}
	s.credentials[credentialKey(cred.UserID, cred.Provider)] = &copied
	return nil
}

// GetCredential retrieves the credential for a user and provider
func (s *MemoryStore) GetCredential(userID string, provider models.Provider) (*models.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[credentialKey(userID, provider)]
	if !ok {
		return nil, false
	}
	copied := *cred
	return &copied, true
}

// DeleteCredential removes the credential for a user and provider
func (s *MemoryStore) DeleteCredential(userID string, provider models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.credentials, credentialKey(userID, provider))
	return nil
}

// OAuth state operations

// PutOAuthState records a pending consent flow state bound to a user
func (s *MemoryStore) PutOAuthState(state, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state] = oauthState{userID: userID, expiresAt: expiresAt}
	return nil
}

// TakeOAuthState consumes a state token, returning the bound user.
// A state can be taken at most once; expired states are rejected.
func (s *MemoryStore) TakeOAuthState(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[state]
	if !ok {
		return "", false
	}
	delete(s.states, state)
	if time.Now().After(st.expiresAt) {
		return "", false
	}
	return st.userID, true
}

// Management

// Clear removes all data from the store
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = make(map[string]*models.Credential)
	s.states = make(map[string]oauthState)
}

// Stats returns statistics about the store
func (s *MemoryStore) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreStats{
		CredentialCount: len(s.credentials),
		StateCount:      len(s.states),
	}
}

// Close implements Store Close (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}

// StoreStats contains statistics about the store
type StoreStats struct {
	CredentialCount int
	StateCount      int
}

// Ensure MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)

// Store defines the interface for credential storage
type Store interface {
	// Credential operations
	SetCredential(cred *models.Credential) error
	GetCredential(userID string, provider models.Provider) (*models.Credential, bool)
	DeleteCredential(userID string, provider models.Provider) error

	// OAuth state operations
	PutOAuthState(state, userID string, expiresAt time.Time) error
	TakeOAuthState(state string) (string, bool)

	// Management
	Clear()
	Stats() StoreStats
	Close() error
}
