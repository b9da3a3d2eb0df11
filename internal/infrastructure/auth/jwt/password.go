package jwt

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/adsforge/adsforge/pkg/errors"
)

// Hasher wraps bcrypt with a configured cost.
type Hasher struct {
	cost int
}

// NewHasher validates the cost and returns a Hasher.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash digests a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	// bcrypt silently truncates beyond 72 bytes; reject instead.
	if len(password) > 72 {
		return "", errors.InvalidParam("password too long")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to hash password")
	}
	return string(digest), nil
}

// Compare checks a plaintext password against a stored digest.
func (h *Hasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errors.Unauthorized("invalid credentials")
	}
	return nil
}
