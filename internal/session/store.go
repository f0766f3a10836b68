// Package session holds the bearer credential for the current page of the
// client's lifetime. The credential is created by a successful authenticate
// call and only goes away when the process exits; there is no expiry and no
// logout.
package session

import "sync"

// Store keeps the single opaque bearer token. Presence of the token is the
// sole gate for authenticated gateway calls and for starting the poll
// scheduler. Safe for concurrent use: the poll scheduler reads it from its
// own goroutine.
type Store struct {
	mu         sync.RWMutex
	credential string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetCredential stores the token verbatim. Any non-empty value returned by
// the backend is accepted as-is; the token shape is never validated.
func (s *Store) SetCredential(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = token
}

// HasCredential reports whether a non-empty credential is held.
func (s *Store) HasCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

// Credential returns the held token, or the empty string.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}
