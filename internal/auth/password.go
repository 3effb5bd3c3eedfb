// Package auth wraps bcrypt hashing for passwords and security answers.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of a password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// normalizeAnswer folds a security answer so "Rex", " rex " and "REX"
// all hash identically.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// HashAnswer hashes a security answer after normalizing case and whitespace.
func HashAnswer(answer string) (string, error) {
	return HashPassword(normalizeAnswer(answer))
}

// CheckAnswer reports whether answer matches the stored normalized hash.
func CheckAnswer(hash, answer string) bool {
	return CheckPassword(hash, normalizeAnswer(answer))
}
