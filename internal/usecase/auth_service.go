package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/holomate/backend/config"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
	pkglog "github.com/holomate/backend/pkg/log"
)

// TokenPair is the credential bundle returned by login and refresh.
type TokenPair struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// Identity is the resolved result of a successful verification,
// attached to the request context by the auth middleware.
type Identity struct {
	UserID   string                 `json:"user_id"`
	Email    string                 `json:"email,omitempty"`
	IsActive bool                   `json:"is_active"`
	Claims   map[string]interface{} `json:"claims,omitempty"`
}

// UserEventPublisher notifies other services about account lifecycle
// events. Implemented by the NATS adapter; nil disables publishing.
type UserEventPublisher interface {
	UserCreated(ctx context.Context, userID, email string) error
}

type AuthService interface {
	Register(ctx context.Context, traceID, email, username, password string) (*domain.User, error)
	Login(ctx context.Context, traceID, identifier, password string) (*domain.User, *TokenPair, error)
	Rotate(ctx context.Context, traceID, refreshSecret string) (*domain.User, *TokenPair, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, traceID, token string)
	Deactivate(ctx context.Context, traceID, userID string) error
}

type authService struct {
	cfg     *config.Config
	logger  pkglog.Logger
	store   repo.Store
	hasher  *PasswordHasher
	codec   *JWTCodec
	revoked *RevocationList
	events  UserEventPublisher
}

func NewAuthService(cfg *config.Config, logger pkglog.Logger, store repo.Store, hasher *PasswordHasher, codec *JWTCodec, revoked *RevocationList, events UserEventPublisher) AuthService {
	return &authService{cfg: cfg, logger: logger, store: store, hasher: hasher, codec: codec, revoked: revoked, events: events}
}

func (s *authService) Register(ctx context.Context, traceID, email, username, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(email) > 255 {
		return nil, ErrValidation
	}
	if len(password) < 8 {
		return nil, ErrValidation
	}
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Email: email, Username: strings.TrimSpace(username), PasswordHash: hash, IsActive: true}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	if s.events != nil {
		_ = s.events.UserCreated(ctx, user.ID, user.Email)
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, traceID, identifier, password string) (*domain.User, *TokenPair, error) {
	user, err := s.store.Users().FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	var pair *TokenPair
	err = s.store.Transaction(ctx, func(tx repo.Store) error {
		now := time.Now().UTC()
		user.LastLoginAt = &now
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("login")
	return user, pair, nil
}

// Rotate consumes the presented refresh secret and issues a fresh token
// pair. Handled failures commit the consume: a secret that reached the
// store is spent whether or not rotation succeeds, which is what makes
// replaying a stolen secret pointless.
func (s *authService) Rotate(ctx context.Context, traceID, refreshSecret string) (*domain.User, *TokenPair, error) {
	var (
		user   *domain.User
		pair   *TokenPair
		rotErr error
	)
	err := s.store.Transaction(ctx, func(tx repo.Store) error {
		refresh := NewRefreshTokenStore(tx.RefreshTokens(), s.cfg.RefreshTTL)
		record, err := refresh.Consume(ctx, refreshSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrRefreshTokenNotFound), errors.Is(err, ErrRefreshTokenExpired):
				s.logger.Warn().Str("trace_id", traceID).Err(err).Msg("refresh rejected")
				rotErr = err
				return nil
			default:
				return err
			}
		}
		user, err = tx.Users().FindByID(ctx, record.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if user == nil || !user.IsActive {
			s.logger.Warn().Str("trace_id", traceID).Str("user_id", record.UserID).Msg("refresh for inactive or missing user")
			rotErr = ErrUserInactiveOrMissing
			return nil
		}
		pair, err = s.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	if rotErr != nil {
		return nil, nil, rotErr
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("refresh rotated")
	return user, pair, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	if s.cfg.RevocationEnabled && s.revoked.Contains(token) {
		return nil, ErrTokenRevoked
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		// The internal reason stays in the logs; clients see one
		// generic rejection.
		s.logger.Debug().Err(err).Msg("token rejected")
		return nil, ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)
	active := true
	if v, ok := claims["is_active"].(bool); ok {
		active = v
	}
	rest := map[string]interface{}{}
	for k, v := range claims {
		switch k {
		case "sub", "email", "is_active":
		default:
			rest[k] = v
		}
	}
	return &Identity{UserID: sub, Email: email, IsActive: active, Claims: rest}, nil
}

// Logout revokes the presented access token ahead of its natural
// expiry. Refresh tokens on other devices are untouched.
func (s *authService) Logout(ctx context.Context, traceID, token string) {
	if token == "" {
		return
	}
	s.revoked.Add(token)
	s.logger.Info().Str("trace_id", traceID).Msg("access token revoked")
}

func (s *authService) Deactivate(ctx context.Context, traceID, userID string) error {
	return s.store.Transaction(ctx, func(tx repo.Store) error {
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		user.IsActive = false
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		if err := tx.RefreshTokens().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		s.logger.Info().Str("trace_id", traceID).Str("user_id", userID).Msg("account deactivated")
		return nil
	})
}

func (s *authService) issuePair(ctx context.Context, tx repo.Store, user *domain.User) (*TokenPair, error) {
	// jti keeps two tokens minted in the same second distinct, so
	// revoking one never revokes the other.
	access, err := s.codec.Encode(map[string]interface{}{
		"sub":       user.ID,
		"email":     user.Email,
		"is_active": user.IsActive,
		"jti":       uuid.NewString(),
	}, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh := NewRefreshTokenStore(tx.RefreshTokens(), s.cfg.RefreshTTL)
	secret, _, err := refresh.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          secret,
		TokenType:             "bearer",
		ExpiresIn:             int64(s.cfg.AccessTTL.Seconds()),
		RefreshTokenExpiresIn: int64(s.cfg.RefreshTTL.Seconds()),
	}, nil
}
