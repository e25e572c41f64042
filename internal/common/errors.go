// Package common defines shared constants and sentinel errors used across
// the account service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrUnavailable  = errors.New("feature unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Uniqueness conflicts.
	ErrDuplicateEmail = errors.New("user already exist with this email")
	ErrDuplicatePhone = errors.New("user already exist with this phone number")

	// Token lifecycle errors.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrCodeMismatch = errors.New("invalid activation code")

	// Login failure, reported as data rather than as a transport error.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Wire codes reported to API callers next to the human readable message.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicatePhone     = "DUPLICATE_PHONE"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeCodeMismatch       = "CODE_MISMATCH"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, CodeUnauthorized},
	{ErrValidation, CodeValidation},
	{ErrDuplicateEmail, CodeDuplicateEmail},
	{ErrDuplicatePhone, CodeDuplicatePhone},
	{ErrTokenExpired, CodeTokenExpired},
	{ErrTokenInvalid, CodeTokenInvalid},
	{ErrCodeMismatch, CodeCodeMismatch},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrorNotFound, CodeNotFound},
	{ErrUnavailable, CodeUnavailable},
}

// ErrorCode maps an error chain to its wire code. Unknown errors are INTERNAL.
// Unauthorized wins over the token errors it may wrap.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// IsConflict reports whether err is one of the uniqueness conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicatePhone)
}

// IsTokenError reports whether err belongs to the activation/session token family.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrCodeMismatch)
}
