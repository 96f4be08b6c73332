package yashe

import (
	"errors"
	"fmt"

	"github.com/inversed-tech/eyelid/ring"
	"github.com/inversed-tech/eyelid/ring/fq"
	"github.com/inversed-tech/eyelid/utils/sampling"
)

// maxKeyGenAttempts bounds the rejection loop on non-invertible
// secret candidates. The non-invertible case has negligible
// probability for valid parameters, so exhausting the bound means the
// parameter set is defective.
const maxKeyGenAttempts = 128

// KeyGenerator samples key material for a parameter set.
type KeyGenerator struct {
	params   Parameters
	gaussian *ring.GaussianSampler
	tMont    fq.Elem
}

// NewKeyGenerator creates a KeyGenerator drawing randomness from
// prng.
func NewKeyGenerator(params Parameters, prng sampling.PRNG) *KeyGenerator {
	r := params.RingQ()
	return &KeyGenerator{
		params:   params,
		gaussian: ring.NewGaussianSampler(prng, r, params.Sigma(), params.Bound()),
		tMont:    r.Field.FromUint64(params.T()),
	}
}

// GenSecretKey samples a small f and forms the secret key t*f + 1,
// resampling until the key is invertible in the ring.
func (kg *KeyGenerator) GenSecretKey() (*SecretKey, error) {
	r := kg.params.RingQ()

	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		f, err := kg.gaussian.ReadNew()
		if err != nil {
			return nil, fmt.Errorf("yashe: secret sampling: %w", err)
		}

		sk, err := r.MulScalar(f, kg.tMont)
		if err != nil {
			return nil, err
		}
		sk.Coeffs[0] = r.Field.Add(sk.Coeffs[0], r.Field.One())

		skInv, err := r.Inverse(sk)
		if err != nil {
			if errors.Is(err, fq.ErrNotInvertible) {
				continue
			}
			return nil, err
		}

		return &SecretKey{Value: sk, f: f, valueInv: skInv}, nil
	}

	return nil, fmt.Errorf("yashe: no invertible secret key in %d attempts, parameters are defective", maxKeyGenAttempts)
}

// GenPublicKey derives the encryption key h = t*g*(t*f+1)^-1 from the
// secret key, with g freshly sampled.
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) (*PublicKey, error) {
	r := kg.params.RingQ()

	g, err := kg.gaussian.ReadNew()
	if err != nil {
		return nil, fmt.Errorf("yashe: public key sampling: %w", err)
	}

	h, err := r.MulScalar(g, kg.tMont)
	if err != nil {
		return nil, err
	}
	if h, err = r.MulCoeffs(h, sk.valueInv); err != nil {
		return nil, err
	}

	fp, err := fingerprint(kg.params, h)
	if err != nil {
		return nil, err
	}

	return &PublicKey{Value: h, fingerprint: fp}, nil
}

// GenKeyPair samples a fresh secret/public key pair.
func (kg *KeyGenerator) GenKeyPair() (*SecretKey, *PublicKey, error) {
	sk, err := kg.GenSecretKey()
	if err != nil {
		return nil, nil, err
	}
	pk, err := kg.GenPublicKey(sk)
	if err != nil {
		return nil, nil, err
	}
	return sk, pk, nil
}

// GenDerivedKey squares the secret key in the ring, producing the key
// that decrypts degree-two (post-multiplication) ciphertexts. Valid
// for exactly one multiplication; deeper circuits are out of scope.
func (kg *KeyGenerator) GenDerivedKey(sk *SecretKey) (*DerivedKey, error) {
	sq, err := kg.params.RingQ().MulCoeffs(sk.Value, sk.Value)
	if err != nil {
		return nil, err
	}
	return &DerivedKey{Value: sq}, nil
}
