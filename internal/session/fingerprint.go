package session

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a short blake3 digest of a credential, safe to log or
// display in place of the token itself.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(token))
	return fmt.Sprintf("%x", hasher.Sum(nil))[:12]
}
