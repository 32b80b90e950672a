package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPin hashes a plaintext access PIN using bcrypt. Used by setup tooling
// to produce the configured hashes.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPinHash compares a plaintext PIN with a configured bcrypt hash.
func CheckPinHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
