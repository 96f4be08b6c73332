package ring

import (
	"github.com/inversed-tech/eyelid/utils/sampling"
)

type baseSampler struct {
	prng sampling.PRNG
	ring *Ring
}

// UniformSampler samples polynomials with coefficients uniform in
// [0, q).
type UniformSampler struct {
	baseSampler
}

// NewUniformSampler creates a UniformSampler reading from prng.
func NewUniformSampler(prng sampling.PRNG, r *Ring) *UniformSampler {
	return &UniformSampler{baseSampler{prng: prng, ring: r}}
}

// Read overwrites pol with fresh uniform coefficients.
func (s *UniformSampler) Read(pol *Poly) error {
	if err := s.ring.checkDegree(pol); err != nil {
		return err
	}
	for i := range pol.Coeffs {
		c, err := s.ring.Field.Rand(s.prng)
		if err != nil {
			return err
		}
		pol.Coeffs[i] = c
	}
	return nil
}

// ReadNew samples a new uniform polynomial.
func (s *UniformSampler) ReadNew() (*Poly, error) {
	pol := s.ring.NewPoly()
	if err := s.Read(pol); err != nil {
		return nil, err
	}
	return pol, nil
}
