package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// bcryptCost is used instead of bcrypt.DefaultCost
const bcryptCost = 12

// IsPasswordValid reports whether a password meets the minimum length
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}

// HashPassword validates and bcrypt-hashes a plaintext password
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a stored bcrypt hash against a candidate password
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
