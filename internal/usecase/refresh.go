package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
)

const refreshSecretBytes = 32

// RefreshTokenStore issues and consumes single-use opaque refresh
// secrets. Only the SHA-256 of a secret is ever persisted.
type RefreshTokenStore struct {
	tokens repo.RefreshTokenRepository
	ttl    time.Duration
}

func NewRefreshTokenStore(tokens repo.RefreshTokenRepository, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{tokens: tokens, ttl: ttl}
}

// Issue generates a fresh secret, persists its hash with an expiry and
// returns the plaintext. The plaintext is not recoverable afterwards.
func (s *RefreshTokenStore) Issue(ctx context.Context, userID string) (string, *domain.RefreshToken, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)
	record := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: HashRefreshSecret(secret),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", nil, err
	}
	return secret, record, nil
}

// Consume validates and deletes the record for secret in one atomic
// repository operation, so a secret can be spent at most once. An
// expired record is still deleted and reported as ErrRefreshTokenExpired
// so audit logs can tell the two apart; callers present both failures
// identically.
func (s *RefreshTokenStore) Consume(ctx context.Context, secret string) (*domain.RefreshToken, error) {
	if secret == "" {
		return nil, ErrRefreshTokenNotFound
	}
	record, err := s.tokens.ConsumeByHash(ctx, HashRefreshSecret(secret))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}
	return record, nil
}

func HashRefreshSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
