package ring

import (
	"fmt"
	"math/big"
)

// ToBigCentered lifts the coefficients of p to integers in
// ]-q/2, q/2].
func (r *Ring) ToBigCentered(p *Poly) ([]*big.Int, error) {
	if err := r.checkDegree(p); err != nil {
		return nil, err
	}
	out := make([]*big.Int, r.N)
	for i, c := range p.Coeffs {
		out[i] = r.Field.Centered(c)
	}
	return out, nil
}

// FromBig reduces arbitrary integer coefficients into the ring.
func (r *Ring) FromBig(coeffs []*big.Int) (*Poly, error) {
	if len(coeffs) != r.N {
		return nil, fmt.Errorf("got %d coefficients, ring degree is %d", len(coeffs), r.N)
	}
	out := r.NewPoly()
	for i, c := range coeffs {
		out.Coeffs[i] = r.Field.FromBig(c)
	}
	return out, nil
}

// MulCoeffsBigint computes the negacyclic product of p1 and p2 over
// the integers, without reduction modulo q: the inputs are
// center-lifted and convolved exactly. The ciphertext tensor step
// needs this exact product, since its result is rescaled by t/q
// before being reduced back into the ring.
func (r *Ring) MulCoeffsBigint(p1, p2 *Poly) ([]*big.Int, error) {
	a, err := r.ToBigCentered(p1)
	if err != nil {
		return nil, err
	}
	b, err := r.ToBigCentered(p2)
	if err != nil {
		return nil, err
	}

	out := make([]*big.Int, r.N)
	for i := range out {
		out[i] = new(big.Int)
	}

	tmp := new(big.Int)
	for j := 0; j < r.N; j++ {
		if a[j].Sign() == 0 {
			continue
		}
		for l := 0; l < r.N; l++ {
			if b[l].Sign() == 0 {
				continue
			}
			tmp.Mul(a[j], b[l])
			if j+l < r.N {
				out[j+l].Add(out[j+l], tmp)
			} else {
				out[j+l-r.N].Sub(out[j+l-r.N], tmp)
			}
		}
	}

	return out, nil
}
