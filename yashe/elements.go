package yashe

import (
	"errors"
	"fmt"

	"github.com/inversed-tech/eyelid/ring"
)

// ErrInvalidInput is returned for malformed plaintexts or ciphertext
// operands (wrong length, out-of-range coefficients, mixed keys).
var ErrInvalidInput = errors.New("yashe: invalid input")

// ErrNoiseOverflow is returned when an operation would provably push
// the ciphertext noise past the decryption-correctness bound. The
// scheme supports exactly one homomorphic multiplication; hitting
// this error signals a programming or parameter defect, not a data
// error, and is never retried.
var ErrNoiseOverflow = errors.New("yashe: noise budget exceeded")

// Plaintext is a ring element with coefficients in [0, t).
type Plaintext struct {
	Value *ring.Poly
}

// NewPlaintext encodes the given signed coefficients modulo t. The
// slice must have exactly N entries with absolute value below t.
func NewPlaintext(params Parameters, coeffs []int64) (*Plaintext, error) {
	if len(coeffs) != params.N() {
		return nil, fmt.Errorf("%w: got %d coefficients, want %d", ErrInvalidInput, len(coeffs), params.N())
	}

	t := int64(params.T())
	r := params.RingQ()
	pt := &Plaintext{Value: r.NewPoly()}
	for i, c := range coeffs {
		if c <= -t || c >= t {
			return nil, fmt.Errorf("%w: coefficient %d is %d, plaintext modulus is %d", ErrInvalidInput, i, c, t)
		}
		if c < 0 {
			c += t
		}
		pt.Value.Coeffs[i] = r.Field.FromInt64(c)
	}
	return pt, nil
}

// Coeffs returns the canonical plaintext coefficients in [0, t).
func (pt *Plaintext) Coeffs(params Parameters) ([]uint64, error) {
	out := make([]uint64, len(pt.Value.Coeffs))
	f := params.RingQ().Field
	for i, c := range pt.Value.Coeffs {
		v, err := f.Uint64(c)
		if err != nil {
			return nil, err
		}
		if v >= params.T() {
			return nil, fmt.Errorf("%w: coefficient %d is %d, plaintext modulus is %d", ErrInvalidInput, i, v, params.T())
		}
		out[i] = v
	}
	return out, nil
}

// Centered returns the plaintext coefficients lifted to
// ]-t/2, t/2].
func (pt *Plaintext) Centered(params Parameters) ([]int64, error) {
	coeffs, err := pt.Coeffs(params)
	if err != nil {
		return nil, err
	}
	t := int64(params.T())
	out := make([]int64, len(coeffs))
	for i, c := range coeffs {
		v := int64(c)
		if v > t/2 {
			v -= t
		}
		out[i] = v
	}
	return out, nil
}

// Ciphertext is an encryption of a plaintext, carrying the noise
// accumulated so far as an implicit term. Degree counts the
// multiplicative depth plus one: fresh ciphertexts have degree 1 and
// decrypt under the secret key, products have degree 2 and decrypt
// under the derived key.
type Ciphertext struct {
	Value *ring.Poly

	Degree int

	// KeyID is the fingerprint of the public key the ciphertext was
	// produced under.
	KeyID [32]byte
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{Value: ct.Value.CopyNew(), Degree: ct.Degree, KeyID: ct.KeyID}
}
