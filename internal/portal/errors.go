package portal

import "errors"

// The portal core reports every failure as one of five typed errors. The
// HTTP layer maps each type to a status code; nothing here is retryable.

// ValidationError: malformed or invariant-violating input. 400.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// ConflictError: duplicate email or an invalid state transition. 409.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// AuthenticationError: identity could not be proven. The message is
// deliberately identical for an unknown account and a wrong password so the
// response never confirms whether an email is registered. 401.
type AuthenticationError struct{ Message string }

func (e *AuthenticationError) Error() string { return e.Message }

// AuthorizationError: identity is proven but access is refused, and the
// caller is told why (deactivated, pending, wrong role). 403.
type AuthorizationError struct{ Message string }

func (e *AuthorizationError) Error() string { return e.Message }

// NotFoundError: the operation target does not exist. 404.
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid email or password"}
	ErrInvalidToken       = &AuthenticationError{Message: "invalid or expired token"}
	ErrDeactivated        = &AuthorizationError{Message: "account is deactivated"}
	ErrPendingApproval    = &AuthorizationError{Message: "account pending approval"}
	ErrWrongPortal        = &AuthorizationError{Message: "access denied: wrong portal for this account"}
)

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsAuthentication(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

func IsAuthorization(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
