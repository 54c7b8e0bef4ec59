// Package auth hashes and verifies user passwords.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltBytes is the amount of entropy in a generated salt.
const SaltBytes = 16

// argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	b := make([]byte, SaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword derives the hex-encoded digest of password under salt.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// NewCredentials generates a salt and the matching digest for password.
func NewCredentials(password string) (hash, salt string, err error) {
	salt, err = NewSalt()
	if err != nil {
		return "", "", err
	}
	return HashPassword(password, salt), salt, nil
}

// CheckPassword recomputes the digest of password and compares it with hash in
// constant time.
func CheckPassword(password, salt, hash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// UnusablePassword returns credentials for an account that cannot sign in with a
// password, such as one created through federated login.
func UnusablePassword() (hash, salt string, err error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return NewCredentials(hex.EncodeToString(secret))
}
