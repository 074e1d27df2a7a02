// Package auth provides credential hashing, signed-token issuance and
// verification, and the request-scoped Principal.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor for password hashing.
const DefaultBcryptCost = 10

// HashPassword creates a bcrypt hash of the given password.
// The salt is generated per call and embedded in the digest.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks if the password matches the stored hash.
// A malformed hash verifies as false rather than surfacing its parse error,
// so callers cannot distinguish "bad digest" from "wrong password".
func VerifyPassword(password, encodedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	return err == nil
}

// IsPasswordTooLong reports whether a password exceeds the bcrypt input
// limit. bcrypt silently truncates beyond 72 bytes; registration rejects
// these instead.
func IsPasswordTooLong(password string) bool {
	return len(password) > 72
}
