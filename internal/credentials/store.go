// Package credentials persists the session's durable counterpart: the
// serialized user record and the bearer token. The two values live and
// die as a pair; a store never hands back one half without the other.
package credentials

import "errors"

// Persisted entry keys. No other component writes these.
const (
	KeyUserRecord = "session-user-record"
	KeyAuthToken  = "session-auth-token"
)

// ErrNotFound is returned when no complete credential pair is stored.
// A partial pair (one key present, the other missing) also surfaces as
// ErrNotFound so callers treat it as invalid and clear it.
var ErrNotFound = errors.New("credentials: not found")

// Store is the durable key-value home of the credential pair.
type Store interface {
	// Load returns the serialized user record and the bearer token.
	// Returns ErrNotFound unless both halves are present.
	Load() (userRecord, token string, err error)

	// Save writes both halves atomically.
	Save(userRecord, token string) error

	// SaveUser overwrites the user record only, leaving the stored token
	// untouched. Returns ErrNotFound if no token is stored, preserving
	// the pair invariant.
	SaveUser(userRecord string) error

	// Clear removes both halves. Clearing an empty store is not an error.
	Clear() error
}
