package auth

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	Unauthenticated ErrorKind = iota + 1
	Forbidden
	NotInSystem
)

// AuthError is returned by the resolver. Unauthenticated maps to 401, the
// other kinds to 403.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Status() int {
	if e.Kind == Unauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

func unauthenticated(message string, err error) *AuthError {
	return &AuthError{Kind: Unauthenticated, Message: message, Err: err}
}

func forbidden(message string) *AuthError {
	return &AuthError{Kind: Forbidden, Message: message}
}

// IsKind reports whether err is an AuthError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}
