package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

const identityKey = "auth_identity"

// TokenVerifier is the single seam between the middleware and the auth
// core.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*usecase.Identity, error)
}

// AuthMiddleware enforces bearer authentication on every route except
// the configured exemptions.
type AuthMiddleware struct {
	verifier       TokenVerifier
	exemptPaths    map[string]struct{}
	exemptPrefixes []string
}

func NewAuthMiddleware(verifier TokenVerifier, exemptPaths, exemptPrefixes []string) *AuthMiddleware {
	paths := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		paths[p] = struct{}{}
	}
	return &AuthMiddleware{verifier: verifier, exemptPaths: paths, exemptPrefixes: exemptPrefixes}
}

func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.exempt(c.Request().URL.Path) {
			return next(c)
		}

		token, ok := BearerToken(c)
		if !ok {
			return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
		}
		identity, err := m.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			// Internal distinctions (expired vs malformed vs bad
			// signature) never reach the client.
			switch err {
			case usecase.ErrNotAuthenticated:
				return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
			case usecase.ErrTokenRevoked:
				return res.Detail(c, http.StatusUnauthorized, "Token revoked")
			default:
				return res.Detail(c, http.StatusUnauthorized, "Invalid authentication credentials")
			}
		}
		c.Set(identityKey, identity)
		return next(c)
	}
}

func (m *AuthMiddleware) exempt(path string) bool {
	if _, ok := m.exemptPaths[path]; ok {
		return true
	}
	for _, prefix := range m.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// BearerToken extracts the bearer credential from the Authorization
// header. Handlers that act on the raw token (logout) must use the same
// parsing the middleware verified with.
func BearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// IdentityFrom returns the identity the middleware attached, or nil on
// exempt routes.
func IdentityFrom(c echo.Context) *usecase.Identity {
	identity, _ := c.Get(identityKey).(*usecase.Identity)
	return identity
}

// WithIdentity attaches an identity directly, used by handler tests.
func WithIdentity(c echo.Context, identity *usecase.Identity) {
	c.Set(identityKey, identity)
}
