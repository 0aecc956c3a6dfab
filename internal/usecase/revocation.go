package usecase

import "sync"

// RevocationList is a process-local set of access tokens invalidated
// ahead of their natural expiry (logout, account deletion). It is
// constructed once at startup and shared by reference; it is not
// replicated across instances.
type RevocationList struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewRevocationList() *RevocationList {
	return &RevocationList{tokens: map[string]struct{}{}}
}

// Add inserts a token. Idempotent.
func (l *RevocationList) Add(token string) {
	l.mu.Lock()
	l.tokens[token] = struct{}{}
	l.mu.Unlock()
}

func (l *RevocationList) Contains(token string) bool {
	l.mu.RLock()
	_, ok := l.tokens[token]
	l.mu.RUnlock()
	return ok
}

// Clear empties the set. Intended for tests and operational resets.
func (l *RevocationList) Clear() {
	l.mu.Lock()
	l.tokens = map[string]struct{}{}
	l.mu.Unlock()
}
