package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

const minPasswordLength = 8

// HashPassword enforces the minimum length and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperrors.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal("failed to hash password").WithError(err)
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
