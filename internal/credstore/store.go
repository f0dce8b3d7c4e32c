// Package credstore persists small string secrets, such as the bearer token,
// across pressdesk invocations.
package credstore

// TokenKey is the key the session credential is stored under.
const TokenKey = "auth_token"

// Store is a durable string key/value store.
//
// Implementations must be safe for concurrent use. Get reports ok=false for a
// missing key. Delete of a missing key is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
