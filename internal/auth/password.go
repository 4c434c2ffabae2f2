package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on change.
const MinPasswordLength = 6

var (
	ErrPasswordTooShort = errors.New("password must have at least 6 characters")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of pwd.
func HashPassword(pwd string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
}

// CheckPassword reports whether pwd matches hash.
func CheckPassword(hash []byte, pwd string) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(pwd)) == nil
}

// ValidateNewPassword checks a new password and its confirmation.
func ValidateNewPassword(pwd, confirm string) error {
	if utf8.RuneCountInString(pwd) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if pwd != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
