// passwordhash.go - bcrypt helpers for stored passwords

// Package passwordhash hashes credentials before they reach the users CSV file.
package passwordhash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest password bcrypt accepts, counted in bytes.
const MaxBytes = 72

var ErrTooLong = errors.New("password exceeds 72 bytes")

// HashPassword hashes password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPasswordHash reports whether password matches hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsHash reports whether value already is a bcrypt hash.
func IsHash(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}

// EnsureHashed hashes value unless it is empty or already hashed.
func EnsureHashed(value string) (string, error) {
	if value == "" || IsHash(value) {
		return value, nil
	}
	if len(value) > MaxBytes {
		return "", ErrTooLong
	}
	return HashPassword(value)
}
