// Package auth verifies quiz secrets. Stored credentials may be plaintext
// (legacy seed files) or bcrypt hashes; Verify picks the comparison from the
// stored value's shape, so the gates above it never change when a deployment
// moves to hashed secrets.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verify reports whether the supplied secret matches the stored credential.
// Plaintext credentials are compared in constant time.
func Verify(stored, supplied string) bool {
	if stored == "" {
		return supplied == ""
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return len(stored) == len(supplied) &&
		subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// Hash returns a bcrypt hash of the secret, suitable for storing in place
// of the plaintext value.
func Hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
