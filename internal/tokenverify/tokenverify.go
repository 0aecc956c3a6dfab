package tokenverify

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid_token")
	ErrSubjectMissing = errors.New("subject_missing")
)

// Decoder validates a signed token and returns its claims.
type Decoder interface {
	Decode(token string) (map[string]interface{}, error)
}

type Result struct {
	UserID string
	Email  string
	Claims map[string]any
}

// Verify decodes token and extracts the authenticated identity, with
// sub and email lifted out of the remaining custom claims.
func Verify(decoder Decoder, token string) (*Result, error) {
	if decoder == nil {
		return nil, ErrInvalidToken
	}
	claims, err := decoder.Decode(token)
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrSubjectMissing
	}
	email, _ := claims["email"].(string)
	rest := map[string]any{}
	for k, v := range claims {
		if k == "sub" || k == "email" {
			continue
		}
		rest[k] = v
	}
	return &Result{UserID: sub, Email: email, Claims: rest}, nil
}
