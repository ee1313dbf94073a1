package service

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	// Login: unknown username and wrong password map to the same error
	// so responses cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")

	ErrInvalidRefresh = errors.New("invalid refresh token")
	ErrTokenReuse     = errors.New("refresh token reuse detected")

	ErrPasswordMismatch       = errors.New("password confirmation does not match")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrWeakPassword           = errors.New("password does not meet strength requirements")
	ErrPasswordReuse          = errors.New("new password must differ from the current one")

	ErrNotFound = errors.New("not found")
)

// ValidationError carries per-field detail for form-filling clients.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// WeakPasswordError lists every violated policy rule, not just the
// first one.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string { return ErrWeakPassword.Error() }

func (e *WeakPasswordError) Is(target error) bool { return target == ErrWeakPassword }
