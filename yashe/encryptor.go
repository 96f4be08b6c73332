package yashe

import (
	"fmt"

	"github.com/inversed-tech/eyelid/ring"
	"github.com/inversed-tech/eyelid/utils/sampling"
)

// Encryptor encrypts plaintexts under a fixed public key.
type Encryptor struct {
	params   Parameters
	pk       *PublicKey
	gaussian *ring.GaussianSampler
}

// NewEncryptor creates an Encryptor for the given public key, drawing
// encryption randomness from prng.
func NewEncryptor(params Parameters, pk *PublicKey, prng sampling.PRNG) *Encryptor {
	return &Encryptor{
		params:   params,
		pk:       pk,
		gaussian: ring.NewGaussianSampler(prng, params.RingQ(), params.Sigma(), params.Bound()),
	}
}

// Encrypt returns c = s*h + e + floor(q/t)*m for fresh small s, e.
// The plaintext must have coefficients in [0, t); anything else is
// ErrInvalidInput.
func (enc *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	r := enc.params.RingQ()

	// Validates the coefficient range as a side effect.
	if _, err := pt.Coeffs(enc.params); err != nil {
		return nil, err
	}

	s, err := enc.gaussian.ReadNew()
	if err != nil {
		return nil, fmt.Errorf("yashe: encryption sampling: %w", err)
	}
	e, err := enc.gaussian.ReadNew()
	if err != nil {
		return nil, fmt.Errorf("yashe: encryption sampling: %w", err)
	}

	c, err := r.MulCoeffs(s, enc.pk.Value)
	if err != nil {
		return nil, err
	}
	if c, err = r.Add(c, e); err != nil {
		return nil, err
	}

	scaled, err := r.MulScalar(pt.Value, enc.params.qdt)
	if err != nil {
		return nil, err
	}
	if c, err = r.Add(c, scaled); err != nil {
		return nil, err
	}

	return &Ciphertext{Value: c, Degree: 1, KeyID: enc.pk.Fingerprint()}, nil
}
