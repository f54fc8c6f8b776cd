// Package password provides named password encoders.
package password

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrUnknownEncoder is returned by Lookup for names nobody registered.
var ErrUnknownEncoder = errors.New("unknown password encoder")

// Encoder hashes and verifies passwords.
type Encoder interface {
	// Name identifies the encoder, e.g. in stored credentials.
	Name() string
	// Encode returns the stored form of password.
	Encode(password string) (string, error)
	// Verify reports whether password matches the stored hash.
	Verify(password, hash string) bool
	// NeedsRehash reports whether hash should be re-encoded with current settings.
	NeedsRehash(hash string) bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Encoder{}
)

func init() {
	Register(PreHashed{})
	Register(NewBcrypt(DefaultBcryptCost))
}

// Register makes enc available to Lookup under enc.Name(), replacing any
// encoder already registered under that name.
func Register(enc Encoder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[enc.Name()] = enc
}

// Lookup returns the encoder registered under name.
func Lookup(name string) (Encoder, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	enc, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEncoder, "%q", name)
	}

	return enc, nil
}

// Names lists registered encoder names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
