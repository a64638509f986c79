package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is pinned rather than left at the library default so a
// dependency upgrade cannot silently change hash strength. Stored hashes
// embed their own cost, so existing credentials keep verifying.
const bcryptCost = 12

// HashPassword derives a bcrypt hash for storing a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
