package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTCodec signs and validates access-token claim sets against a single
// secret and algorithm fixed at startup.
type JWTCodec struct {
	secret []byte
	method jwt.SigningMethod
}

func NewJWTCodec(secret, algorithm string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, errors.New("unknown jwt signing algorithm: " + algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("jwt signing algorithm must be HMAC-based: " + algorithm)
	}
	return &JWTCodec{secret: []byte(secret), method: method}, nil
}

// Encode signs claims with an expiry of now+ttl. The caller's claims map
// is not mutated.
func (c *JWTCodec) Encode(claims map[string]interface{}, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	all := jwt.MapClaims{}
	for k, v := range claims {
		all[k] = v
	}
	all["iat"] = now.Unix()
	all["exp"] = now.Add(ttl).Unix()
	return jwt.NewWithClaims(c.method, all).SignedString(c.secret)
}

// Decode validates the signature and expiry and returns the claims.
// Failures collapse to ErrTokenExpired or ErrTokenInvalid; the caller
// must not forward the distinction to clients.
func (c *JWTCodec) Decode(tokenString string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
