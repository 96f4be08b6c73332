package yashe

import (
	"fmt"
	"math/big"
)

// Evaluator performs the homomorphic operations: ciphertext addition
// and the single supported multiplication. It holds no mutable state
// and is safe for concurrent use.
type Evaluator struct {
	params Parameters
}

// NewEvaluator creates an Evaluator for the parameter set.
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{params: params}
}

func (eval *Evaluator) checkPair(c1, c2 *Ciphertext) error {
	if c1.KeyID != c2.KeyID {
		return fmt.Errorf("%w: ciphertexts were encrypted under different keys", ErrInvalidInput)
	}
	return nil
}

// Add returns the homomorphic sum of two ciphertexts of equal degree.
func (eval *Evaluator) Add(c1, c2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkPair(c1, c2); err != nil {
		return nil, err
	}
	if c1.Degree != c2.Degree {
		return nil, fmt.Errorf("%w: cannot add degree %d to degree %d", ErrInvalidInput, c1.Degree, c2.Degree)
	}
	v, err := eval.params.RingQ().Add(c1.Value, c2.Value)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Value: v, Degree: c1.Degree, KeyID: c1.KeyID}, nil
}

// Sub returns the homomorphic difference of two ciphertexts of equal
// degree.
func (eval *Evaluator) Sub(c1, c2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkPair(c1, c2); err != nil {
		return nil, err
	}
	if c1.Degree != c2.Degree {
		return nil, fmt.Errorf("%w: cannot subtract degree %d from degree %d", ErrInvalidInput, c2.Degree, c1.Degree)
	}
	v, err := eval.params.RingQ().Sub(c1.Value, c2.Value)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Value: v, Degree: c1.Degree, KeyID: c1.KeyID}, nil
}

// Mul returns the homomorphic product of two fresh ciphertexts,
// following the YASHE multiplication: the operands are center-lifted,
// convolved exactly over the integers, rescaled by t/q with rounding,
// and reduced back modulo q. The result has degree 2 and decrypts
// only under the derived key.
//
// Multiplying anything that is not a fresh (degree-1) ciphertext
// would provably exceed the one-multiplication noise budget and
// returns ErrNoiseOverflow.
func (eval *Evaluator) Mul(c1, c2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkPair(c1, c2); err != nil {
		return nil, err
	}
	if c1.Degree != 1 || c2.Degree != 1 {
		return nil, fmt.Errorf("%w: homomorphic multiplication needs fresh operands, got degrees %d and %d",
			ErrNoiseOverflow, c1.Degree, c2.Degree)
	}

	r := eval.params.RingQ()

	prod, err := r.MulCoeffsBigint(c1.Value, c2.Value)
	if err != nil {
		return nil, err
	}

	tBig := eval.params.TBig()
	qBig := eval.params.QBig()
	qHalf := new(big.Int).Rsh(qBig, 1)

	coeffs := make([]*big.Int, len(prod))
	for i, v := range prod {
		// round(v * t / q), rounding half away from zero.
		v.Mul(v, tBig)
		if v.Sign() >= 0 {
			v.Add(v, qHalf)
		} else {
			v.Sub(v, qHalf)
		}
		v.Quo(v, qBig)
		coeffs[i] = v
	}

	value, err := r.FromBig(coeffs)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{Value: value, Degree: 2, KeyID: c1.KeyID}, nil
}
