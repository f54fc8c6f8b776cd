package password

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the cost of the registered "bcrypt" encoder.
const DefaultBcryptCost = bcrypt.DefaultCost

// Bcrypt encodes passwords with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

var _ Encoder = (*Bcrypt)(nil)

// NewBcrypt creates a bcrypt encoder. Costs outside bcrypt's accepted range
// are clamped to it.
func NewBcrypt(cost int) *Bcrypt {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return &Bcrypt{cost: cost}
}

// Name implements Encoder.
func (b *Bcrypt) Name() string { return "bcrypt" }

// Cost returns the configured cost.
func (b *Bcrypt) Cost() int { return b.cost }

// Encode hashes password.
func (b *Bcrypt) Encode(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (b *Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash is true when hash was produced with another cost or is not a
// bcrypt hash at all.
func (b *Bcrypt) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}

	return cost != b.cost
}
