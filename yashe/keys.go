package yashe

import (
	"github.com/zeebo/blake3"

	"github.com/inversed-tech/eyelid/accel"
	"github.com/inversed-tech/eyelid/ring"
)

// SecretKey is the decryption key for fresh ciphertexts:
// Value = t*f + 1 for a small invertible f. Secret keys are session
// material: they are never serialized, and this package offers no
// marshalling surface for them.
type SecretKey struct {
	// Value is t*f + 1.
	Value *ring.Poly

	// f is the underlying small polynomial.
	f *ring.Poly

	// valueInv is Value^-1, kept for public-key generation.
	valueInv *ring.Poly
}

// PublicKey is the encryption key h = t*g*(t*f+1)^-1.
type PublicKey struct {
	Value *ring.Poly

	fingerprint [32]byte
}

// Fingerprint returns the blake3 digest of the key polynomial.
// Ciphertexts carry it so that the evaluator can refuse operands
// encrypted under different keys.
func (pk *PublicKey) Fingerprint() [32]byte {
	return pk.fingerprint
}

// DerivedKey decrypts ciphertexts that went through exactly one
// homomorphic multiplication. It is the square of the secret key in
// the ring: a closed-form transform specific to multiplicative depth
// one, not a generic key-switching key. Like the secret key it is
// never serialized.
type DerivedKey struct {
	Value *ring.Poly
}

func fingerprint(params Parameters, p *ring.Poly) (fp [32]byte, err error) {
	buf := make([]byte, params.N()*accel.ElemSize)
	if err = accel.EncodeVec(buf, p.Coeffs); err != nil {
		return fp, err
	}
	return blake3.Sum256(buf), nil
}
