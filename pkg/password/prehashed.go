package password

import "crypto/subtle"

// PreHashed accepts passwords that were hashed elsewhere and stores them as is.
type PreHashed struct{}

var _ Encoder = PreHashed{}

// Name implements Encoder.
func (PreHashed) Name() string { return "PreHashed" }

// Encode returns password unchanged.
func (PreHashed) Encode(password string) (string, error) {
	return password, nil
}

// Verify compares in constant time.
func (PreHashed) Verify(password, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(hash)) == 1
}

// NeedsRehash is always false.
func (PreHashed) NeedsRehash(string) bool { return false }
