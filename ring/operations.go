package ring

import (
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
	"github.com/inversed-tech/eyelid/utils"
)

// Add returns p1 + p2.
func (r *Ring) Add(p1, p2 *Poly) (*Poly, error) {
	if err := r.checkDegree(p1, p2); err != nil {
		return nil, err
	}
	coeffs, err := r.backend.BatchAdd(p1.Coeffs, p2.Coeffs)
	if err != nil {
		return nil, err
	}
	return &Poly{Coeffs: coeffs}, nil
}

// Sub returns p1 - p2.
func (r *Ring) Sub(p1, p2 *Poly) (*Poly, error) {
	if err := r.checkDegree(p1, p2); err != nil {
		return nil, err
	}
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = r.Field.Sub(p1.Coeffs[i], p2.Coeffs[i])
	}
	return out, nil
}

// Neg returns -p.
func (r *Ring) Neg(p *Poly) (*Poly, error) {
	if err := r.checkDegree(p); err != nil {
		return nil, err
	}
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = r.Field.Neg(p.Coeffs[i])
	}
	return out, nil
}

// MulScalar returns s * p for a Montgomery-form scalar s.
func (r *Ring) MulScalar(p *Poly, s fq.Elem) (*Poly, error) {
	if err := r.checkDegree(p); err != nil {
		return nil, err
	}
	out := r.NewPoly()
	for i := range out.Coeffs {
		out.Coeffs[i] = r.Field.MRed(p.Coeffs[i], s)
	}
	return out, nil
}

// MulCoeffs returns the negacyclic product p1 * p2: coefficient i
// accumulates all p1[j]*p2[l] with j+l = i mod N, with a sign flip on
// the wrapped terms (j+l >= N).
//
// The schoolbook convolution is organised as one batched element-wise
// multiplication per output coefficient, so a configured accelerator
// backend absorbs the O(N^2) inner products.
func (r *Ring) MulCoeffs(p1, p2 *Poly) (*Poly, error) {
	if err := r.checkDegree(p1, p2); err != nil {
		return nil, err
	}

	f := r.Field
	out := r.NewPoly()
	row := make([]fq.Elem, r.N)

	for i := 0; i < r.N; i++ {
		// row[j] = +-p2[(i-j) mod N]: negated when j > i, since
		// then j + l = i + N wraps past the boundary.
		for j := 0; j < r.N; j++ {
			k := i - j
			if k < 0 {
				row[j] = f.Neg(p2.Coeffs[k+r.N])
			} else {
				row[j] = p2.Coeffs[k]
			}
		}

		prods, err := r.backend.BatchMul(p1.Coeffs, row)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}

		var acc fq.Elem
		for j := range prods {
			acc = f.Add(acc, prods[j])
		}
		out.Coeffs[i] = acc
	}

	return out, nil
}

// Rotate returns p * x^k, the negacyclic rotation of p by k positions.
// Coefficients that wrap past the boundary flip sign; k may be
// negative. Rotate is a ring automorphism of period 2N: rotating N
// positions negates the polynomial, rotating 2N is the identity.
func (r *Ring) Rotate(p *Poly, k int) (*Poly, error) {
	if err := r.checkDegree(p); err != nil {
		return nil, err
	}

	s := utils.Mod(k, 2*r.N)
	flip := false
	if s >= r.N {
		s -= r.N
		flip = true
	}

	f := r.Field
	out := r.NewPoly()
	for i := 0; i < r.N; i++ {
		j := i + s
		neg := flip
		if j >= r.N {
			j -= r.N
			neg = !neg
		}
		if neg {
			out.Coeffs[j] = f.Neg(p.Coeffs[i])
		} else {
			out.Coeffs[j] = p.Coeffs[i]
		}
	}
	return out, nil
}
