package fq

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

// ErrNotInvertible is returned when inverting the zero element.
var ErrNotInvertible = errors.New("fq: element is not invertible")

// Elem is a residue modulo the Field modulus, stored in Montgomery
// form as two little-endian 64-bit limbs. The zero value is the zero
// element of any Field. Elem is an immutable value type: operations
// return new elements and never modify their operands.
type Elem [2]uint64

// Equal returns true if a == b. Montgomery representatives are unique
// in [0, q), so limb equality is representative equality.
func (a Elem) Equal(b Elem) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// IsZero returns true if a is the zero element.
func (a Elem) IsZero() bool {
	return a[0] == 0 && a[1] == 0
}

// geq returns true if a >= b as 128-bit integers.
func geq(a, b Elem) bool {
	if a[1] != b[1] {
		return a[1] > b[1]
	}
	return a[0] >= b[0]
}

// Add returns a + b mod q. Implemented as a double-word addition
// followed by a single conditional subtraction of q, mirroring the
// limb-parallel accelerator path.
func (f *Field) Add(a, b Elem) (r Elem) {
	var c uint64
	r[0], c = bits.Add64(a[0], b[0], 0)
	r[1], _ = bits.Add64(a[1], b[1], c)
	if geq(r, Elem(f.q)) {
		var borrow uint64
		r[0], borrow = bits.Sub64(r[0], f.q[0], 0)
		r[1], _ = bits.Sub64(r[1], f.q[1], borrow)
	}
	return
}

// Sub returns a - b mod q, adding q back on borrow.
func (f *Field) Sub(a, b Elem) (r Elem) {
	var borrow uint64
	r[0], borrow = bits.Sub64(a[0], b[0], 0)
	r[1], borrow = bits.Sub64(a[1], b[1], borrow)
	if borrow != 0 {
		var c uint64
		r[0], c = bits.Add64(r[0], f.q[0], 0)
		r[1], _ = bits.Add64(r[1], f.q[1], c)
	}
	return
}

// Neg returns -a mod q.
func (f *Field) Neg(a Elem) (r Elem) {
	if a.IsZero() {
		return a
	}
	var borrow uint64
	r[0], borrow = bits.Sub64(f.q[0], a[0], 0)
	r[1], _ = bits.Sub64(f.q[1], a[1], borrow)
	return
}

// MRed returns a * b * 2^-128 mod q, the Montgomery product.
//
// The double-width product is reduced with exactly one
// multiply-accumulate pass per limb using the precomputed
// -q^-1 mod 2^64 constant, with explicit carry propagation. The
// wraparound and carry-chain semantics of this function are the
// reference for any batched accelerator implementation.
func (f *Field) MRed(a, b Elem) Elem {

	// Full 256-bit product p3:p2:p1:p0 = a * b.
	var p0, p1, p2, p3 uint64
	var c, lo, hi uint64

	p1, p0 = bits.Mul64(a[0], b[0])

	hi, lo = bits.Mul64(a[0], b[1])
	p1, c = bits.Add64(p1, lo, 0)
	p2 = hi + c

	hi, lo = bits.Mul64(a[1], b[0])
	p1, c = bits.Add64(p1, lo, 0)
	p2, c = bits.Add64(p2, hi, c)
	p3 = c

	hi, lo = bits.Mul64(a[1], b[1])
	p2, c = bits.Add64(p2, lo, 0)
	p3 += hi + c

	// First reduction pass: add m*q so that limb 0 vanishes.
	m := p0 * f.qInv
	mq2, mq1, mq0 := mulWide(m, f.q)
	_, c = bits.Add64(p0, mq0, 0)
	p1, c = bits.Add64(p1, mq1, c)
	p2, c = bits.Add64(p2, mq2, c)
	p3 += c

	// Second reduction pass: limb 1 vanishes, result is p3:p2.
	m = p1 * f.qInv
	mq2, mq1, mq0 = mulWide(m, f.q)
	_, c = bits.Add64(p1, mq0, 0)
	p2, c = bits.Add64(p2, mq1, c)
	p3, _ = bits.Add64(p3, mq2, c)

	r := Elem{p2, p3}
	// The reduced value is below 2q, one conditional subtraction.
	if geq(r, Elem(f.q)) {
		var borrow uint64
		r[0], borrow = bits.Sub64(r[0], f.q[0], 0)
		r[1], _ = bits.Sub64(r[1], f.q[1], borrow)
	}
	return r
}

// mulWide returns the 192-bit product m * q as three limbs.
func mulWide(m uint64, q [2]uint64) (hi, mid, lo uint64) {
	h0, l0 := bits.Mul64(m, q[0])
	h1, l1 := bits.Mul64(m, q[1])
	var c uint64
	mid, c = bits.Add64(h0, l1, 0)
	hi = h1 + c
	return hi, mid, l0
}

// MForm brings a canonical residue into Montgomery form,
// returning a * 2^128 mod q.
func (f *Field) MForm(a Elem) Elem {
	return f.MRed(a, f.rSquare)
}

// IMForm takes a out of Montgomery form, returning a * 2^-128 mod q
// as canonical limbs in [0, q).
func (f *Field) IMForm(a Elem) Elem {
	return f.MRed(a, Elem{1, 0})
}

// Inv returns a^-1 mod q in Montgomery form, or ErrNotInvertible if
// a is zero. Since q is prime, zero is the only non-invertible value.
func (f *Field) Inv(a Elem) (Elem, error) {
	if a.IsZero() {
		return Elem{}, ErrNotInvertible
	}
	inv := new(big.Int).ModInverse(f.Big(a), f.qBig)
	return f.FromBig(inv), nil
}

// FromUint64 returns the Montgomery form of x mod q.
func (f *Field) FromUint64(x uint64) Elem {
	return f.FromBig(new(big.Int).SetUint64(x))
}

// FromInt64 returns the Montgomery form of x mod q, mapping negative
// values to their residue.
func (f *Field) FromInt64(x int64) Elem {
	return f.FromBig(big.NewInt(x))
}

// FromBig returns the Montgomery form of x mod q.
func (f *Field) FromBig(x *big.Int) Elem {
	r := new(big.Int).Mod(x, f.qBig)
	return f.MForm(limbs(r))
}

// Big returns the canonical value of a as a big integer in [0, q).
func (f *Field) Big(a Elem) *big.Int {
	c := f.IMForm(a)
	r := new(big.Int).SetUint64(c[1])
	r.Lsh(r, 64)
	return r.Or(r, new(big.Int).SetUint64(c[0]))
}

// Centered returns the canonical value of a lifted to ]-q/2, q/2].
func (f *Field) Centered(a Elem) *big.Int {
	r := f.Big(a)
	if r.Cmp(f.qHalf) > 0 {
		r.Sub(r, f.qBig)
	}
	return r
}

// Uint64 returns the canonical value of a, which must fit 64 bits.
func (f *Field) Uint64(a Elem) (uint64, error) {
	c := f.IMForm(a)
	if c[1] != 0 {
		return 0, fmt.Errorf("fq: canonical value of %v exceeds 64 bits", c)
	}
	return c[0], nil
}

// String implements fmt.Stringer on behalf of a Field, printing the
// canonical value of a.
func (f *Field) String(a Elem) string {
	return f.Big(a).String()
}
