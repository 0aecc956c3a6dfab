package unit

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
)

// mockStore is an in-memory repo.Store. Transaction simply runs fn
// against the same store; the maps are mutex-guarded so the single-use
// refresh guarantee can be hammered from multiple goroutines.
type mockStore struct {
	users   *mockUserRepo
	refresh *mockRefreshRepo
}

func newMockStore() *mockStore {
	return &mockStore{users: newMockUserRepo(), refresh: newMockRefreshRepo()}
}

func (s *mockStore) Users() repo.UserRepository                 { return s.users }
func (s *mockStore) RefreshTokens() repo.RefreshTokenRepository { return s.refresh }
func (s *mockStore) Companions() repo.CompanionRepository       { return nil }
func (s *mockStore) Conversations() repo.ConversationRepository { return nil }
func (s *mockStore) Messages() repo.MessageRepository           { return nil }
func (s *mockStore) VoiceProfiles() repo.VoiceProfileRepository { return nil }
func (s *mockStore) Devices() repo.DeviceRepository             { return nil }
func (s *mockStore) StreamingSessions() repo.StreamingSessionRepository {
	return nil
}
func (s *mockStore) Subscriptions() repo.SubscriptionRepository { return nil }

func (s *mockStore) Transaction(_ context.Context, fn func(repo.Store) error) error {
	return fn(s)
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	next  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*domain.User{}}
}

func (r *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.next++
		user.ID = fmt.Sprintf("user-%d", r.next)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == identifier || (u.Username != "" && u.Username == identifier) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type mockRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken
	next   int
}

func newMockRefreshRepo() *mockRefreshRepo {
	return &mockRefreshRepo{tokens: map[string]domain.RefreshToken{}}
}

func (r *mockRefreshRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		r.next++
		token.ID = fmt.Sprintf("refresh-%d", r.next)
	}
	r.tokens[token.TokenHash] = *token
	return nil
}

func (r *mockRefreshRepo) ConsumeByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.tokens, hash)
	return &tok, nil
}

func (r *mockRefreshRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, tok := range r.tokens {
		if tok.UserID == userID {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func (r *mockRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type recordingEvents struct {
	mu      sync.Mutex
	created []string
}

func (e *recordingEvents) UserCreated(_ context.Context, userID, _ string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, userID)
	return nil
}
