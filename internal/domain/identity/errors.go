// internal/domain/identity/errors.go
package identity

import "errors"

// Auth failures reported by the identity provider. The presentation layer
// maps these to user-visible messages; the managers never retry.
var (
	ErrInvalidEmail       = errors.New("identity: invalid email")
	ErrEmailInUse         = errors.New("identity: email already in use")
	ErrWeakCredential     = errors.New("identity: password too weak")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrTooManyAttempts    = errors.New("identity: too many attempts, try again later")

	// ErrSession covers generic session failures (e.g. sign-out).
	ErrSession = errors.New("identity: session error")

	// ErrDeletion is returned when multi-step account deletion stops partway.
	// Later steps are not attempted; partial deletion is observable.
	ErrDeletion = errors.New("identity: account deletion failed")

	// ErrNotSignedIn guards operations that require an active identity.
	ErrNotSignedIn = errors.New("identity: not signed in")
)
