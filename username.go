package accounts

import (
	"regexp"
	"unicode/utf8"
)

const (
	// UsernameMinLength is the shortest username the policy accepts.
	UsernameMinLength = 8
	// UsernameMaxLength is the longest username the policy accepts.
	UsernameMaxLength = 32
)

// usernamePattern allows lowercase letters, digits, hyphen, and
// underscore. The input is checked as given, no trimming or case
// folding.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidateUsername applies the username policy: length bounds first,
// character set last, first failure wins. Length counts characters,
// not bytes. It runs on both the signup and login paths before any
// storage access.
func ValidateUsername(candidate string) error {
	length := utf8.RuneCountInString(candidate)

	if length < UsernameMinLength {
		return ErrUsernameTooShort
	}

	if length > UsernameMaxLength {
		return ErrUsernameTooLong
	}

	if !usernamePattern.MatchString(candidate) {
		return ErrUsernamePattern
	}

	return nil
}
