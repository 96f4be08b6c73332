// Package ring implements the negacyclic polynomial ring
// F_q[x]/(x^N + 1) over the two-limb Montgomery field of the fq
// subpackage, together with the polynomial samplers used by the
// encryption scheme.
package ring

import (
	"fmt"

	"github.com/inversed-tech/eyelid/accel"
	"github.com/inversed-tech/eyelid/ring/fq"
)

// Ring is an immutable description of the quotient ring
// F_q[x]/(x^N + 1), with N a power of two. Multiplying by x^N is
// multiplying by -1: coefficients that wrap past the boundary flip
// sign. All operations route their bulk field arithmetic through a
// pluggable backend; the default backend is the scalar reference.
type Ring struct {
	// N is the ring degree.
	N int

	// Field carries the coefficient modulus and its Montgomery
	// constants.
	Field *fq.Field

	backend accel.Backend
}

// NewRing creates a Ring of degree N (a power of two, at least 2)
// over the given field, using the scalar backend.
func NewRing(N int, field *fq.Field) (*Ring, error) {
	if N < 2 || N&(N-1) != 0 {
		return nil, fmt.Errorf("invalid ring degree %d: must be a power of two >= 2", N)
	}
	if field == nil {
		return nil, fmt.Errorf("invalid field: nil")
	}
	return &Ring{N: N, Field: field, backend: accel.NewScalar(field)}, nil
}

// SetBackend routes the ring's bulk arithmetic through the given
// backend. The backend must operate on the ring's field.
func (r *Ring) SetBackend(b accel.Backend) error {
	if b.Field() != r.Field {
		return fmt.Errorf("backend field does not match ring field")
	}
	r.backend = b
	return nil
}

// Poly is a dense element of the ring: exactly N coefficients in
// Montgomery form, index 0 holding the constant term. Polys are
// copied, never aliased, across ring operations.
type Poly struct {
	Coeffs []fq.Elem
}

// NewPoly returns the zero polynomial of the ring.
func (r *Ring) NewPoly() *Poly {
	return &Poly{Coeffs: make([]fq.Elem, r.N)}
}

// CopyNew returns a deep copy of p.
func (p *Poly) CopyNew() *Poly {
	return &Poly{Coeffs: append([]fq.Elem(nil), p.Coeffs...)}
}

// Copy overwrites p with a deep copy of q.
func (p *Poly) Copy(q *Poly) {
	p.Coeffs = append(p.Coeffs[:0], q.Coeffs...)
}

// Equal returns true if p and q have identical coefficients.
func (p *Poly) Equal(q *Poly) bool {
	if len(p.Coeffs) != len(q.Coeffs) {
		return false
	}
	for i := range p.Coeffs {
		if !p.Coeffs[i].Equal(q.Coeffs[i]) {
			return false
		}
	}
	return true
}

// IsZero returns true if every coefficient of p is zero.
func (p *Poly) IsZero() bool {
	for i := range p.Coeffs {
		if !p.Coeffs[i].IsZero() {
			return false
		}
	}
	return true
}

func (r *Ring) checkDegree(ps ...*Poly) error {
	for _, p := range ps {
		if len(p.Coeffs) != r.N {
			return fmt.Errorf("polynomial has %d coefficients, ring degree is %d", len(p.Coeffs), r.N)
		}
	}
	return nil
}
