// Package csrf derives the scoped submission tokens that bind a form to the
// current browser session, endpoint and application secret.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SessionKeyName is the session entry holding the per-session HMAC key.
const SessionKeyName = "__bscmp_csrf"

// KeySize is the length of a freshly generated session key.
const KeySize = 16

// tokenSize is the number of HMAC bytes kept in a token.
const tokenSize = 18

// Store is the subset of a session the key helpers need.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Token computes the scoped token for the given session key.
//
// The token is base64(HMAC-SHA256(key, scope "\n" endpoint "\n" secret)),
// truncated to 18 bytes before encoding. An empty endpoint leaves the
// endpoint line out, producing a token that is valid on every endpoint.
func Token(key []byte, scope, endpoint, secret string) string {
	msg := scope
	if endpoint != "" {
		msg += "\n" + endpoint
	}
	msg += "\n" + secret

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)[:tokenSize])
}

// Equal reports whether two tokens match, in constant time.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// SessionKey returns the session's HMAC key, creating and storing a random
// one on first use. An existing key is never replaced.
func SessionKey(s Store) ([]byte, error) {
	if v, ok := s.Get(SessionKeyName); ok {
		switch key := v.(type) {
		case []byte:
			if len(key) > 0 {
				return key, nil
			}
		case string:
			if key != "" {
				return []byte(key), nil
			}
		}
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("csrf: generate session key: %w", err)
	}
	s.Set(SessionKeyName, key)
	return key, nil
}
