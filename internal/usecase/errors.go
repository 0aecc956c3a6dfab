package usecase

import "errors"

// Failure taxonomy for the auth core. Handlers map these to transport
// responses; the core never reveals which sub-check rejected a
// credential beyond what the sentinel itself carries.
var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account is deactivated")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrRefreshTokenNotFound  = errors.New("refresh token not found")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrUserInactiveOrMissing = errors.New("user not found or inactive")
	ErrEmailTaken            = errors.New("email already registered")
)

// Token codec internals, distinguished for logging only. Both surface
// outward as invalid credentials.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrDeviceBusy         = errors.New("device already has an active session")
	ErrSerialNumberExists = errors.New("device with this serial number already exists")
	ErrVoiceProfileActive = errors.New("companion already has an active voice profile")
)
