package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/rolodex-dev/rolodex/internal/logger"
)

// Hasher wraps bcrypt so services do not depend on the hash scheme.
type Hasher struct{}

func (Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}
	return string(hash), nil
}

func (Hasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
