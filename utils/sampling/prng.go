// Package sampling provides the sources of randomness used by the
// samplers and the key generation.
package sampling

import (
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for the secure generation of random bytes.
type PRNG interface {
	Read(p []byte) (n int, err error)
}

// SystemPRNG is a thread-safe PRNG backed by crypto/rand.
type SystemPRNG struct{}

// NewPRNG returns a PRNG backed by the operating system entropy
// source. It is safe for concurrent use.
func NewPRNG() (*SystemPRNG, error) {
	return &SystemPRNG{}, nil
}

// Read fills p with random bytes from crypto/rand.
func (prng *SystemPRNG) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

// KeyedPRNG deterministically expands a key into an unbounded stream
// of pseudo-random bytes using the blake2b XOF. Two KeyedPRNG
// instantiated with the same key produce the same stream, which is
// what the tests rely on for reproducible samples.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a KeyedPRNG from the given key. A nil key is
// valid but yields a publicly recomputable stream, so keyless
// instances belong in tests only.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}
	return &KeyedPRNG{key: append([]byte(nil), key...), xof: xof}, nil
}

// Key returns a copy of the seed key.
func (prng *KeyedPRNG) Key() []byte {
	return append([]byte(nil), prng.key...)
}

// Read fills p with the next bytes of the stream.
func (prng *KeyedPRNG) Read(p []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(p)
}

// Reset rewinds the stream to its beginning.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
