// Package fq implements arithmetic over a fixed prime field F_q with
// q spanning up to two 64-bit limbs. Elements are kept in Montgomery
// form with radix R = 2^128, so that multiplication reduces with
// per-limb multiply-accumulate passes instead of a generic division.
package fq

import (
	"fmt"
	"math/big"
)

// Qi79 is the production coefficient modulus, a 79-bit prime with
// q - 1 divisible by 2^13.
const Qi79 = "495925933090739208380417"

// QiTiny is the debug coefficient modulus, a 36-bit prime with
// q = 1 mod 2^13 like the production prime. Small enough that failing
// values stay readable in test output.
const QiTiny = "68719403009"

// Field holds a prime modulus together with its precomputed Montgomery
// constants. A Field is immutable once created and safe for concurrent
// use; all element operations are methods on it so that several
// parameter sets can coexist.
type Field struct {
	// q is the modulus as little-endian 64-bit limbs.
	q [2]uint64
	// qInv = -q^-1 mod 2^64, the per-limb Montgomery constant.
	qInv uint64
	// rSquare = 2^256 mod q, in limbs. Used to enter Montgomery form.
	rSquare Elem
	// one = 2^128 mod q, the Montgomery representation of 1.
	one Elem

	qBig    *big.Int
	qHalf   *big.Int // (q-1)/2, for centered lifts
	bitLen  int
	// mask clears the excess top bits when rejection-sampling limbs.
	mask uint64
}

// NewField creates a Field for the prime modulus q. The modulus must
// be an odd prime strictly between 2 and 2^127.
func NewField(q *big.Int) (*Field, error) {

	if q.Sign() <= 0 || q.BitLen() > 127 {
		return nil, fmt.Errorf("invalid modulus: must be in ]0, 2^127[ but has %d bits", q.BitLen())
	}

	if q.Bit(0) == 0 {
		return nil, fmt.Errorf("invalid modulus: must be odd")
	}

	if !q.ProbablyPrime(64) {
		return nil, fmt.Errorf("invalid modulus: must be prime")
	}

	f := &Field{qBig: new(big.Int).Set(q)}

	f.q[0] = q.Uint64()
	f.q[1] = new(big.Int).Rsh(q, 64).Uint64()

	radix := new(big.Int).Lsh(big.NewInt(1), 64)
	qInv := new(big.Int).ModInverse(q, radix)
	qInv.Neg(qInv).Mod(qInv, radix)
	f.qInv = qInv.Uint64()

	r := new(big.Int).Lsh(big.NewInt(1), 128)
	f.one = limbs(new(big.Int).Mod(r, q))
	f.rSquare = limbs(new(big.Int).Mod(new(big.Int).Mul(r, r), q))

	f.qHalf = new(big.Int).Rsh(new(big.Int).Sub(q, big.NewInt(1)), 1)
	f.bitLen = q.BitLen()

	if f.bitLen > 64 {
		f.mask = (1 << uint(f.bitLen-64)) - 1
	} else {
		f.mask = (1 << uint(f.bitLen)) - 1
	}

	return f, nil
}

// NewFieldFromString creates a Field from the decimal representation
// of the modulus, e.g. the Qi79 or QiTiny constants.
func NewFieldFromString(q string) (*Field, error) {
	qBig, ok := new(big.Int).SetString(q, 10)
	if !ok {
		return nil, fmt.Errorf("invalid modulus string %q", q)
	}
	return NewField(qBig)
}

// Modulus returns a copy of the modulus q.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.qBig)
}

// ModulusHalf returns a copy of (q-1)/2.
func (f *Field) ModulusHalf() *big.Int {
	return new(big.Int).Set(f.qHalf)
}

// ModulusLimbs returns the modulus as little-endian 64-bit limbs, the
// layout shared with batched accelerator backends.
func (f *Field) ModulusLimbs() [2]uint64 {
	return f.q
}

// MontgomeryConstant returns -q^-1 mod 2^64.
func (f *Field) MontgomeryConstant() uint64 {
	return f.qInv
}

// BitLen returns the bit length of the modulus.
func (f *Field) BitLen() int {
	return f.bitLen
}

// Zero returns the additive identity.
func (f *Field) Zero() Elem {
	return Elem{}
}

// One returns the multiplicative identity in Montgomery form.
func (f *Field) One() Elem {
	return f.one
}

func limbs(x *big.Int) (e Elem) {
	e[0] = x.Uint64()
	e[1] = new(big.Int).Rsh(x, 64).Uint64()
	return
}
