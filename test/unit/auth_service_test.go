package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/holomate/backend/config"
	"github.com/holomate/backend/internal/domain"
	"github.com/holomate/backend/internal/usecase"
	pkglog "github.com/holomate/backend/pkg/log"
)

type testDeps struct {
	cfg     *config.Config
	store   *mockStore
	codec   *usecase.JWTCodec
	revoked *usecase.RevocationList
	events  *recordingEvents
}

func newTestService(t *testing.T) (usecase.AuthService, *testDeps) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAlgorithm:      "HS256",
		AccessTTL:         time.Minute,
		RefreshTTL:        time.Hour,
		RevocationEnabled: true,
	}
	codec, err := usecase.NewJWTCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	store := newMockStore()
	revoked := usecase.NewRevocationList()
	events := &recordingEvents{}
	svc := usecase.NewAuthService(cfg, pkglog.New("test", "test"), store, usecase.NewPasswordHasher(), codec, revoked, events)
	return svc, &testDeps{cfg: cfg, store: store, codec: codec, revoked: revoked, events: events}
}

func seedUser(t *testing.T, deps *testDeps, email, username, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &domain.User{Email: email, Username: username, PasswordHash: string(hash), IsActive: active}
	if err := deps.store.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestRegister(t *testing.T) {
	svc, deps := newTestService(t)

	user, err := svc.Register(context.Background(), "trace", "New@Example.com", "holly", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("new user should be active")
	}
	if user.PasswordHash == "password123" {
		t.Fatalf("plaintext password stored")
	}
	if len(deps.events.created) != 1 || deps.events.created[0] != user.ID {
		t.Fatalf("user created event not published: %v", deps.events.created)
	}

	if _, err := svc.Register(context.Background(), "trace", "new@example.com", "other", "password123"); !errors.Is(err, usecase.ErrEmailTaken) {
		t.Fatalf("duplicate email: expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "trace", "not-an-email", "u", "password123"); !errors.Is(err, usecase.ErrValidation) {
		t.Fatalf("bad email: expected validation error, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "trace", "ok@example.com", "u", "short"); !errors.Is(err, usecase.ErrValidation) {
		t.Fatalf("short password: expected validation error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "holly", "secret123", true)

	user, pair, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login not set")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("token pair incomplete: %+v", pair)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("unexpected token type: %s", pair.TokenType)
	}
	if pair.ExpiresIn != 60 || pair.RefreshTokenExpiresIn != 3600 {
		t.Fatalf("unexpected lifetimes: %d/%d", pair.ExpiresIn, pair.RefreshTokenExpiresIn)
	}
	if deps.store.refresh.count() != 1 {
		t.Fatalf("refresh token not stored")
	}

	// Username works as identifier too.
	if _, _, err := svc.Login(context.Background(), "trace", "holly", "secret123"); err != nil {
		t.Fatalf("login by username: %v", err)
	}
}

func TestLoginErrorUniformity(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "holly", "secret123", true)

	_, _, unknownErr := svc.Login(context.Background(), "trace", "ghost@example.com", "secret123")
	_, _, wrongErr := svc.Login(context.Background(), "trace", "user@example.com", "wrong-password")
	if !errors.Is(unknownErr, usecase.ErrInvalidCredentials) || !errors.Is(wrongErr, usecase.ErrInvalidCredentials) {
		t.Fatalf("unknown user and wrong password must fail alike: %v vs %v", unknownErr, wrongErr)
	}
}

func TestLoginInactive(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", false)

	if _, _, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123"); !errors.Is(err, usecase.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestRotate(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, next, err := svc.Rotate(context.Background(), "trace", pair.RefreshToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("unexpected user: %s", user.Email)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation must mint a new secret")
	}

	// The consumed secret is spent for good.
	if _, _, err := svc.Rotate(context.Background(), "trace", pair.RefreshToken); !errors.Is(err, usecase.ErrRefreshTokenNotFound) {
		t.Fatalf("replay: expected ErrRefreshTokenNotFound, got %v", err)
	}
	// The new one still works.
	if _, _, err := svc.Rotate(context.Background(), "trace", next.RefreshToken); err != nil {
		t.Fatalf("rotate with fresh secret: %v", err)
	}
}

func TestRotateUnknownSecret(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Rotate(context.Background(), "trace", "never-issued"); !errors.Is(err, usecase.ErrRefreshTokenNotFound) {
		t.Fatalf("expected ErrRefreshTokenNotFound, got %v", err)
	}
	if _, _, err := svc.Rotate(context.Background(), "trace", ""); !errors.Is(err, usecase.ErrRefreshTokenNotFound) {
		t.Fatalf("empty secret: expected ErrRefreshTokenNotFound, got %v", err)
	}
}

func TestRotateInactiveUserSpendsSecret(t *testing.T) {
	svc, deps := newTestService(t)
	user := seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Deactivate between issue and rotate.
	user.IsActive = false
	if err := deps.store.users.Update(context.Background(), user); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, _, err := svc.Rotate(context.Background(), "trace", pair.RefreshToken); !errors.Is(err, usecase.ErrUserInactiveOrMissing) {
		t.Fatalf("expected ErrUserInactiveOrMissing, got %v", err)
	}
	// No resurrection: the secret stays consumed even though rotation
	// failed.
	if _, _, err := svc.Rotate(context.Background(), "trace", pair.RefreshToken); !errors.Is(err, usecase.ErrRefreshTokenNotFound) {
		t.Fatalf("replay after failed rotation: expected ErrRefreshTokenNotFound, got %v", err)
	}
}

func TestRotateConcurrentSingleUse(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Rotate(context.Background(), "trace", pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won int
	for err := range results {
		if err == nil {
			won++
		} else if !errors.Is(err, usecase.ErrRefreshTokenNotFound) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("exactly one concurrent rotation should win, got %d", won)
	}
}

func TestVerify(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, err := svc.Verify(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Email != "user@example.com" || !identity.IsActive {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.UserID == "" {
		t.Fatalf("subject missing")
	}
}

func TestVerifyRejections(t *testing.T) {
	svc, deps := newTestService(t)

	if _, err := svc.Verify(context.Background(), ""); !errors.Is(err, usecase.ErrNotAuthenticated) {
		t.Fatalf("empty token: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), "garbage"); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("garbage token: expected ErrInvalidCredentials, got %v", err)
	}

	// Valid signature but no subject.
	token, err := deps.codec.Encode(map[string]interface{}{"email": "user@example.com"}, time.Minute)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("missing subject: expected ErrInvalidCredentials, got %v", err)
	}

	expired, err := deps.codec.Encode(map[string]interface{}{"sub": "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("encode expired: %v", err)
	}
	if _, err := svc.Verify(context.Background(), expired); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("expired: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRevocationPrecedence(t *testing.T) {
	svc, deps := newTestService(t)

	// Even a token that would fail decoding reports revoked first once
	// it is on the list.
	deps.revoked.Add("some-token")
	if _, err := svc.Verify(context.Background(), "some-token"); !errors.Is(err, usecase.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestVerifyRevocationDisabled(t *testing.T) {
	svc, deps := newTestService(t)
	deps.cfg.RevocationEnabled = false
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, _ := svc.Login(context.Background(), "trace", "user@example.com", "secret123")

	deps.revoked.Add(pair.AccessToken)
	if _, err := svc.Verify(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("revocation disabled should skip the list: %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, pair, _ := svc.Login(context.Background(), "trace", "user@example.com", "secret123")

	svc.Logout(context.Background(), "trace", pair.AccessToken)
	if _, err := svc.Verify(context.Background(), pair.AccessToken); !errors.Is(err, usecase.ErrTokenRevoked) {
		t.Fatalf("post-logout verify: expected ErrTokenRevoked, got %v", err)
	}
	// Logout of an empty token is a no-op.
	svc.Logout(context.Background(), "trace", "")
	if deps.revoked.Contains("") {
		t.Fatalf("empty token must not be revoked")
	}
}

func TestAccessTokensDistinctPerIssue(t *testing.T) {
	svc, deps := newTestService(t)
	seedUser(t, deps, "user@example.com", "", "secret123", true)
	_, first, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	_, second, err := svc.Rotate(context.Background(), "trace", first.RefreshToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	// Issued back to back, inside one second: identical iat/exp must
	// still give two different tokens.
	if first.AccessToken == second.AccessToken {
		t.Fatalf("two issues produced the same access token")
	}
	svc.Logout(context.Background(), "trace", second.AccessToken)
	if _, err := svc.Verify(context.Background(), first.AccessToken); err != nil {
		t.Fatalf("revoking one token revoked the other: %v", err)
	}
	if _, err := svc.Verify(context.Background(), second.AccessToken); !errors.Is(err, usecase.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestDeactivatePurgesRefreshTokens(t *testing.T) {
	svc, deps := newTestService(t)
	user := seedUser(t, deps, "user@example.com", "", "secret123", true)
	if _, _, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if deps.store.refresh.count() != 1 {
		t.Fatalf("refresh token missing after login")
	}

	if err := svc.Deactivate(context.Background(), "trace", user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deps.store.refresh.count() != 0 {
		t.Fatalf("refresh tokens not purged")
	}
	stored, err := deps.store.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("user still active")
	}
	if _, _, err := svc.Login(context.Background(), "trace", "user@example.com", "secret123"); !errors.Is(err, usecase.ErrAccountInactive) {
		t.Fatalf("login after deactivation: expected ErrAccountInactive, got %v", err)
	}
}
