// Package service implements the use cases of the group administration app.
// Every method takes the acting user and enforces who may do what; handlers
// only translate HTTP to calls.
package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"

	"azimute/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountRestricted is returned to users whose function has no access to the app.
	ErrAccountRestricted = errors.New("account has no access to the application")
)

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// repositoryMiss stands in for a lookup that found a record the actor may not see.
var repositoryMiss = sql.ErrNoRows

// lookup translates repository misses into ErrNotFound.
func lookup(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%s %w", what, ErrConflict)
	}
	return err
}

// newID returns a sortable id such as "ntf_2Jd0...".
func newID(prefix string) string {
	return prefix + "_" + ksuid.New().String()
}
