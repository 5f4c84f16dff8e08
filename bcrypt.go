package tasks

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoEmptyString is the error for empty password input
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrMismatchedHashAndPassword is the verification failure error
var ErrMismatchedHashAndPassword = errors.New("password does not match hash")

// HashPassword will generate a password hash. The plaintext is reduced to a
// fixed-length SHA-256 digest before the bcrypt step, so inputs longer than
// bcrypt's 72 byte limit hash correctly and cost stays independent of length.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword(normalizePassword(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), normalizePassword(password)); err != nil {
		// A malformed stored hash is a verification failure, not a fault.
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

func normalizePassword(password string) []byte {
	digest := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(out, digest[:])
	return out
}
