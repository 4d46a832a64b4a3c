package errors

import (
	"errors"
	"fmt"
)

// Common error types for the account server. All of these are expected,
// recoverable outcomes surfaced to callers as values, never as panics.
var (
	// Credential errors
	ErrWrongCredentials  = errors.New("wrong credentials")
	ErrDuplicateUserName = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Session errors
	ErrUnauthenticated = errors.New("not authenticated")

	// General errors
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable marks storage-layer failures (connectivity,
	// corruption). Fatal to the operation, not to the process; the
	// transport layer maps it to a 5xx-equivalent.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
