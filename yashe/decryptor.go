package yashe

import (
	"fmt"
	"math/big"

	"github.com/inversed-tech/eyelid/ring"
)

// Decryptor decrypts ciphertexts. Key material is passed per call and
// not retained: the caller controls how tightly the secret is scoped.
type Decryptor struct {
	params Parameters
}

// NewDecryptor creates a Decryptor for the parameter set.
func NewDecryptor(params Parameters) *Decryptor {
	return &Decryptor{params: params}
}

// Decrypt decrypts a fresh ciphertext with the secret key.
//
// Decrypting a degree-2 ciphertext with the plain secret key is
// deliberately not prevented: it yields an incorrectly rounded
// plaintext, which is exactly the property demonstrating why the
// derived key exists. Callers decrypting products should use
// DecryptDerived.
func (dec *Decryptor) Decrypt(ct *Ciphertext, sk *SecretKey) (*Plaintext, error) {
	if err := dec.checkNoise(ct); err != nil {
		return nil, err
	}
	return dec.decryptWith(ct, sk.Value)
}

// DecryptDerived decrypts a degree-2 (post-multiplication) ciphertext
// with the derived key.
func (dec *Decryptor) DecryptDerived(ct *Ciphertext, dk *DerivedKey) (*Plaintext, error) {
	if err := dec.checkNoise(ct); err != nil {
		return nil, err
	}
	if ct.Degree != 2 {
		return nil, fmt.Errorf("%w: derived key decrypts degree-2 ciphertexts, got degree %d", ErrInvalidInput, ct.Degree)
	}
	return dec.decryptWith(ct, dk.Value)
}

// checkNoise rejects ciphertexts whose provable noise exceeds the
// correctness bound. With parameters validated at construction this
// only fires for degrees the scheme does not support; it is a defect
// report, not a recoverable condition.
func (dec *Decryptor) checkNoise(ct *Ciphertext) error {
	if ct.Degree < 1 || ct.Degree > 2 {
		return fmt.Errorf("%w: degree %d is outside the supported one-multiplication budget", ErrNoiseOverflow, ct.Degree)
	}
	return nil
}

// decryptWith computes round(t/q * centered(key*c mod q)) mod t per
// coefficient.
func (dec *Decryptor) decryptWith(ct *Ciphertext, key *ring.Poly) (*Plaintext, error) {
	r := dec.params.RingQ()

	res, err := r.MulCoeffs(ct.Value, key)
	if err != nil {
		return nil, err
	}

	tBig := dec.params.TBig()
	qBig := dec.params.QBig()
	qHalf := new(big.Int).Rsh(qBig, 1)

	pt := &Plaintext{Value: r.NewPoly()}
	for i, c := range res.Coeffs {
		v := r.Field.Centered(c)
		v.Mul(v, tBig)
		if v.Sign() >= 0 {
			v.Add(v, qHalf)
		} else {
			v.Sub(v, qHalf)
		}
		v.Quo(v, qBig)
		v.Mod(v, tBig)
		pt.Value.Coeffs[i] = r.Field.FromBig(v)
	}

	return pt, nil
}
