package ring

import (
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
	"github.com/inversed-tech/eyelid/utils/sampling"
)

// TernarySampler samples polynomials with coefficients in {-1, 0, 1},
// each with probability 1/3.
type TernarySampler struct {
	baseSampler
	// lut maps a ternary digit to its Montgomery-form coefficient.
	lut [3]fq.Elem
	buf []byte
	ptr int
}

// NewTernarySampler creates a TernarySampler reading from prng.
func NewTernarySampler(prng sampling.PRNG, r *Ring) *TernarySampler {
	f := r.Field
	return &TernarySampler{
		baseSampler: baseSampler{prng: prng, ring: r},
		lut:         [3]fq.Elem{f.Neg(f.One()), f.Zero(), f.One()},
		buf:         make([]byte, 1024),
		ptr:         1024,
	}
}

func (s *TernarySampler) digit() (uint8, error) {
	// Rejection sampling over single bytes: 255 is the only value
	// that would bias the residue mod 3.
	for {
		if s.ptr == len(s.buf) {
			if _, err := s.prng.Read(s.buf); err != nil {
				return 0, fmt.Errorf("ternary sampling failed: %w", err)
			}
			s.ptr = 0
		}
		b := s.buf[s.ptr]
		s.ptr++
		if b == 255 {
			continue
		}
		return b % 3, nil
	}
}

// Read overwrites pol with fresh ternary coefficients.
func (s *TernarySampler) Read(pol *Poly) error {
	if err := s.ring.checkDegree(pol); err != nil {
		return err
	}
	for i := range pol.Coeffs {
		d, err := s.digit()
		if err != nil {
			return err
		}
		pol.Coeffs[i] = s.lut[d]
	}
	return nil
}

// ReadNew samples a new ternary polynomial.
func (s *TernarySampler) ReadNew() (*Poly, error) {
	pol := s.ring.NewPoly()
	if err := s.Read(pol); err != nil {
		return nil, err
	}
	return pol, nil
}
