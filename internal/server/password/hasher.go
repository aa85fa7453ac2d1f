// Package password implements one-way password hashing for stored
// credentials. The bcrypt implementation salts every hash and compares in
// constant time, so two hashes of the same password never match and
// verification does not leak which byte diverged.
package password

import (
	"fmt"

	"github.com/spolyakov/passport/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// Hasher hashes plaintext passwords and verifies candidates against
// previously produced hashes.
type Hasher interface {
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. It returns false,
	// never an error, on malformed hash input.
	Verify(password, hash string) bool
}

// BcryptHasher is a Hasher backed by golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a BcryptHasher with the given work factor.
// Cost must be within the range bcrypt accepts.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]: %w",
			cost, bcrypt.MinCost, bcrypt.MaxCost, common.ErrorInvalidInput)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("empty password: %w", common.ErrorInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
