package yashe

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/inversed-tech/eyelid/utils/sampling"
)

// SampleMessage samples a plaintext with coefficients uniform in
// [0, t).
func SampleMessage(params Parameters, prng sampling.PRNG) (*Plaintext, error) {
	coeffs := make([]int64, params.N())
	t := params.T()
	var buf [8]byte
	// Rejection below the largest multiple of t, to keep the
	// distribution exactly uniform.
	limit := (^uint64(0) / t) * t
	for i := range coeffs {
		for {
			if _, err := prng.Read(buf[:]); err != nil {
				return nil, fmt.Errorf("yashe: message sampling: %w", err)
			}
			v := binary.LittleEndian.Uint64(buf[:])
			if v >= limit {
				continue
			}
			coeffs[i] = int64(v % t)
			break
		}
	}
	return NewPlaintext(params, coeffs)
}

// SampleBinaryMessage samples a plaintext with coefficients uniform
// in {0, 1}.
func SampleBinaryMessage(params Parameters, prng sampling.PRNG) (*Plaintext, error) {
	coeffs := make([]int64, params.N())
	buf := make([]byte, (params.N()+7)/8)
	if _, err := prng.Read(buf); err != nil {
		return nil, fmt.Errorf("yashe: message sampling: %w", err)
	}
	for i := range coeffs {
		coeffs[i] = int64((buf[i/8] >> (i % 8)) & 1)
	}
	return NewPlaintext(params, coeffs)
}

// NewConstantPlaintext returns the plaintext with constant term c and
// all other coefficients zero.
func NewConstantPlaintext(params Parameters, c int64) (*Plaintext, error) {
	coeffs := make([]int64, params.N())
	coeffs[0] = c
	return NewPlaintext(params, coeffs)
}

// PlaintextAdd returns the coefficient-wise sum of two plaintexts
// modulo t. Tests use it as the ground truth for homomorphic
// addition.
func PlaintextAdd(params Parameters, p1, p2 *Plaintext) (*Plaintext, error) {
	c1, err := p1.Coeffs(params)
	if err != nil {
		return nil, err
	}
	c2, err := p2.Coeffs(params)
	if err != nil {
		return nil, err
	}
	coeffs := make([]int64, params.N())
	for i := range coeffs {
		coeffs[i] = int64((c1[i] + c2[i]) % params.T())
	}
	return NewPlaintext(params, coeffs)
}

// PlaintextMul returns the negacyclic product of two plaintexts
// modulo t, center-lifting the exact integer convolution before the
// final reduction. Tests use it as the ground truth for homomorphic
// multiplication.
func PlaintextMul(params Parameters, p1, p2 *Plaintext) (*Plaintext, error) {
	r := params.RingQ()

	conv, err := r.MulCoeffsBigint(p1.Value, p2.Value)
	if err != nil {
		return nil, err
	}

	tBig := params.TBig()
	pt := &Plaintext{Value: r.NewPoly()}
	for i, v := range conv {
		pt.Value.Coeffs[i] = r.Field.FromBig(new(big.Int).Mod(v, tBig))
	}
	return pt, nil
}
