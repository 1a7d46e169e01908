package myerrors

import "errors"

var (
	// NotFound
	ErrDriverNotFound = errors.New("driver not registered")

	// Unauthorized / Forbidden
	ErrUnauthorized = errors.New("missing or malformed bearer token")
	ErrForbidden    = errors.New("token rejected")

	// InvalidInput
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidCode     = errors.New("invalid code")
	ErrPhoneRegistered = errors.New("driver already registered with this phone")
	ErrMissingSMSData  = errors.New("missing data")

	// CredentialMismatch
	ErrCredentialMismatch = errors.New("invalid password")

	// StoreFailure
	ErrStore = errors.New("store failure")
)
