package accounts

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeUsernameTooShort = "username_too_short"
	TextCodeUsernameTooLong  = "username_too_long"
	TextCodeUsernamePattern  = "username_pattern"
	TextCodeMissingEmail     = "missing_email"
	TextCodeEmptyPassword    = "empty_password"
	TextCodeUnknownEmail     = "unknown_email"
	TextCodeUsernameMismatch = "username_mismatch"
	TextCodePasswordMismatch = "password_mismatch"
	TextCodeCredentialsTaken = "credentials_taken"
	TextCodeNotFound         = "identity_not_found"
	TextCodeTokenExpired     = "token_expired"
	TextCodeTokenMalformed   = "token_malformed"
)

// ErrUsernameTooShort is returned for usernames under 8 characters.
var ErrUsernameTooShort = errors.New("username is too short", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTooShort).
	WithCode(errors.CodeForbidden)

// ErrUsernameTooLong is returned for usernames over 32 characters.
var ErrUsernameTooLong = errors.New("username is too long", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTooLong).
	WithCode(errors.CodeForbidden)

// ErrUsernamePattern is returned for usernames outside the allowed
// character set.
var ErrUsernamePattern = errors.New("username is not match the pattern", errors.CategoryValidation).
	WithTextCode(TextCodeUsernamePattern).
	WithCode(errors.CodeForbidden)

// ErrMissingEmail is the defensive guard for an empty email reaching
// the service.
var ErrMissingEmail = errors.New("email is required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingEmail).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeForbidden)

// ErrEmailNotRegistered is returned when no identity exists for the
// login email.
var ErrEmailNotRegistered = errors.New("email is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodeUnknownEmail).
	WithCode(errors.CodeForbidden)

// ErrUsernameMismatch is returned when the supplied username does not
// match the stored one for the login email.
var ErrUsernameMismatch = errors.New("username is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodeUsernameMismatch).
	WithCode(errors.CodeForbidden)

// ErrPasswordMismatch is returned when the password does not verify
// against the stored hash. Malformed stored hashes resolve here too so
// corrupted rows fail authentication instead of crashing it.
var ErrPasswordMismatch = errors.New("password is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeForbidden)

// ErrCredentialsTaken is returned when a signup collides with an
// existing email or username.
var ErrCredentialsTaken = errors.New("credentials already taken", errors.CategoryConflict).
	WithTextCode(TextCodeCredentialsTaken).
	WithCode(errors.CodeForbidden)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is the unauthenticated outcome for expired tokens.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the unauthenticated outcome for tokens whose
// signature or structure does not verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// DuplicateFieldError is the storage-neutral signal that a unique
// column collided on insert or update. Field is "email" or "username"
// when the driver names the constraint, otherwise "credentials".
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate value for unique field %q", e.Field)
}

// IsDuplicateField reports whether err carries a unique collision and
// returns the collided field when it does.
func IsDuplicateField(err error) (string, bool) {
	var dup *DuplicateFieldError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// IsPolicyViolation reports whether err is a username policy failure.
func IsPolicyViolation(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	switch rich.TextCode {
	case TextCodeUsernameTooShort, TextCodeUsernameTooLong, TextCodeUsernamePattern:
		return true
	}
	return false
}

// IsAuthFailure reports whether err is one of the credential
// verification failures (unknown email, username mismatch, password
// mismatch).
func IsAuthFailure(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	switch rich.TextCode {
	case TextCodeUnknownEmail, TextCodeUsernameMismatch, TextCodePasswordMismatch:
		return true
	}
	return false
}
