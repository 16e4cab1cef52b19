package service

import "errors"

// Auth flow specific errors used by handlers for stable error_type mapping.
var (
	ErrAlreadyRegistered   = errors.New("already_registered")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrInvalidCredential   = errors.New("invalid_credential")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrCodeExpired         = errors.New("code_expired")
	ErrRetryExhausted      = errors.New("retry_exhausted")
	ErrDuplicateIdentifier = errors.New("duplicate_identifier")
	ErrDispatchFailed      = errors.New("dispatch_failed")
)
