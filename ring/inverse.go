package ring

import (
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
	"github.com/inversed-tech/eyelid/utils"
)

// Inverse returns p^-1 in F_q[x]/(x^N + 1), computed with the
// extended Euclidean algorithm between p and x^N + 1. It returns
// fq.ErrNotInvertible (wrapped) when p is a zero divisor or zero;
// the key generation retries on that outcome.
func (r *Ring) Inverse(p *Poly) (*Poly, error) {
	if err := r.checkDegree(p); err != nil {
		return nil, err
	}

	f := r.Field
	one := f.One()

	// m = x^N + 1
	m := make([]fq.Elem, r.N+1)
	m[0] = one
	m[r.N] = one

	r0 := m
	r1 := append([]fq.Elem(nil), p.Coeffs...)
	t0 := []fq.Elem(nil)
	t1 := []fq.Elem{one}

	if polyDeg(r1) < 0 {
		return nil, fmt.Errorf("ring: %w", fq.ErrNotInvertible)
	}

	// Invariant: t_i * p = r_i (mod x^N + 1).
	for polyDeg(r1) >= 0 {
		quo, rem, err := r.polyDivMod(r0, r1)
		if err != nil {
			return nil, err
		}
		r0, r1 = r1, rem
		t0, t1 = t1, r.polySub(t0, r.polyMul(quo, t1))
	}

	if polyDeg(r0) != 0 {
		return nil, fmt.Errorf("ring: %w", fq.ErrNotInvertible)
	}

	lead, err := f.Inv(r0[0])
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}

	// deg(t0) < N, so folding into the ring is a plain copy.
	out := r.NewPoly()
	for i := 0; i <= polyDeg(t0); i++ {
		out.Coeffs[i] = f.MRed(t0[i], lead)
	}
	return out, nil
}

// polyDeg returns the degree of a, or -1 for the zero polynomial.
func polyDeg(a []fq.Elem) int {
	for i := len(a) - 1; i >= 0; i-- {
		if !a[i].IsZero() {
			return i
		}
	}
	return -1
}

// polyDivMod returns quo, rem with a = quo*b + rem and
// deg(rem) < deg(b), over F_q[x].
func (r *Ring) polyDivMod(a, b []fq.Elem) (quo, rem []fq.Elem, err error) {
	f := r.Field

	db := polyDeg(b)
	if db < 0 {
		return nil, nil, fmt.Errorf("ring: polynomial division by zero")
	}

	bInv, err := f.Inv(b[db])
	if err != nil {
		return nil, nil, fmt.Errorf("ring: %w", err)
	}

	rem = append([]fq.Elem(nil), a...)
	da := polyDeg(rem)
	if da < db {
		return nil, rem, nil
	}

	quo = make([]fq.Elem, da-db+1)
	for i := da; i >= db; i-- {
		if rem[i].IsZero() {
			continue
		}
		c := f.MRed(rem[i], bInv)
		quo[i-db] = c
		for j := 0; j <= db; j++ {
			rem[i-db+j] = f.Sub(rem[i-db+j], f.MRed(c, b[j]))
		}
	}
	return quo, rem, nil
}

// polyMul returns a*b over F_q[x].
func (r *Ring) polyMul(a, b []fq.Elem) []fq.Elem {
	da, db := polyDeg(a), polyDeg(b)
	if da < 0 || db < 0 {
		return nil
	}
	f := r.Field
	out := make([]fq.Elem, da+db+1)
	for i := 0; i <= da; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j <= db; j++ {
			out[i+j] = f.Add(out[i+j], f.MRed(a[i], b[j]))
		}
	}
	return out
}

// polySub returns a-b over F_q[x].
func (r *Ring) polySub(a, b []fq.Elem) []fq.Elem {
	f := r.Field
	out := make([]fq.Elem, utils.Max(len(a), len(b)))
	for i := range out {
		var av, bv fq.Elem
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = f.Sub(av, bv)
	}
	return out
}
