package ring

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/inversed-tech/eyelid/utils/sampling"
)

// GaussianSampler samples polynomials with coefficients drawn from a
// rounded centered gaussian of standard deviation Sigma, truncated to
// [-Bound, Bound]. The secret and error distributions of the scheme
// are instances of this sampler.
type GaussianSampler struct {
	baseSampler

	// Sigma is the standard deviation of the underlying continuous
	// gaussian.
	Sigma float64

	// Bound truncates the support; samples beyond it are rejected
	// and redrawn.
	Bound int64

	spare    float64
	hasSpare bool
}

// NewGaussianSampler creates a GaussianSampler reading from prng.
func NewGaussianSampler(prng sampling.PRNG, r *Ring, sigma float64, bound int64) *GaussianSampler {
	return &GaussianSampler{
		baseSampler: baseSampler{prng: prng, ring: r},
		Sigma:       sigma,
		Bound:       bound,
	}
}

// uniform returns a float64 uniform in ]0, 1[ built from 53 random
// bits.
func (s *GaussianSampler) uniform() (float64, error) {
	var buf [8]byte
	for {
		if _, err := s.prng.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("gaussian sampling failed: %w", err)
		}
		u := binary.LittleEndian.Uint64(buf[:]) >> 11
		if u == 0 {
			continue
		}
		return float64(u) / (1 << 53), nil
	}
}

// norm returns a standard normal sample via the Box-Muller transform.
func (s *GaussianSampler) norm() (float64, error) {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare, nil
	}
	u1, err := s.uniform()
	if err != nil {
		return 0, err
	}
	u2, err := s.uniform()
	if err != nil {
		return 0, err
	}
	radius := math.Sqrt(-2 * math.Log(u1))
	s.spare = radius * math.Sin(2*math.Pi*u2)
	s.hasSpare = true
	return radius * math.Cos(2*math.Pi*u2), nil
}

// Read overwrites pol with fresh gaussian coefficients.
func (s *GaussianSampler) Read(pol *Poly) error {
	if err := s.ring.checkDegree(pol); err != nil {
		return err
	}
	f := s.ring.Field
	for i := range pol.Coeffs {
		for {
			n, err := s.norm()
			if err != nil {
				return err
			}
			v := int64(math.Round(n * s.Sigma))
			if v > s.Bound || v < -s.Bound {
				continue
			}
			pol.Coeffs[i] = f.FromInt64(v)
			break
		}
	}
	return nil
}

// ReadNew samples a new gaussian polynomial.
func (s *GaussianSampler) ReadNew() (*Poly, error) {
	pol := s.ring.NewPoly()
	if err := s.Read(pol); err != nil {
		return nil, err
	}
	return pol, nil
}
