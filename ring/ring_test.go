package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inversed-tech/eyelid/accel"
	"github.com/inversed-tech/eyelid/ring/fq"
	"github.com/inversed-tech/eyelid/utils/sampling"
)

type testContext struct {
	ring    *Ring
	prng    sampling.PRNG
	uniform *UniformSampler
}

func newTestContext(t *testing.T, N int) *testContext {
	field, err := fq.NewFieldFromString(fq.QiTiny)
	require.NoError(t, err)

	r, err := NewRing(N, field)
	require.NoError(t, err)

	prng, err := sampling.NewKeyedPRNG([]byte("ring-test"))
	require.NoError(t, err)

	return &testContext{
		ring:    r,
		prng:    prng,
		uniform: NewUniformSampler(prng, r),
	}
}

func (tc *testContext) name(op string) string {
	return fmt.Sprintf("%s/N=%d", op, tc.ring.N)
}

func (tc *testContext) randPoly(t *testing.T) *Poly {
	p, err := tc.uniform.ReadNew()
	require.NoError(t, err)
	return p
}

// monomial returns x^k.
func (tc *testContext) monomial(k int) *Poly {
	p := tc.ring.NewPoly()
	p.Coeffs[k] = tc.ring.Field.One()
	return p
}

func TestNewRing(t *testing.T) {
	field, err := fq.NewFieldFromString(fq.QiTiny)
	require.NoError(t, err)

	t.Run("RejectsNonPowerOfTwo", func(t *testing.T) {
		_, err := NewRing(12, field)
		require.Error(t, err)
	})

	t.Run("RejectsDegreeOne", func(t *testing.T) {
		_, err := NewRing(1, field)
		require.Error(t, err)
	})

	t.Run("RejectsNilField", func(t *testing.T) {
		_, err := NewRing(8, nil)
		require.Error(t, err)
	})
}

func TestRingOperations(t *testing.T) {
	for _, N := range []int{8, 16} {
		tc := newTestContext(t, N)
		r := tc.ring

		t.Run(tc.name("Add/SubRoundTrip"), func(t *testing.T) {
			a, b := tc.randPoly(t), tc.randPoly(t)
			sum, err := r.Add(a, b)
			require.NoError(t, err)
			back, err := r.Sub(sum, b)
			require.NoError(t, err)
			require.True(t, back.Equal(a))
		})

		t.Run(tc.name("Neg/AddsToZero"), func(t *testing.T) {
			a := tc.randPoly(t)
			na, err := r.Neg(a)
			require.NoError(t, err)
			sum, err := r.Add(a, na)
			require.NoError(t, err)
			require.True(t, sum.IsZero())
		})

		t.Run(tc.name("Mul/Monomials"), func(t *testing.T) {
			// x^a * x^b = x^(a+b), negated once past the boundary.
			for a := 0; a < N; a++ {
				for b := 0; b < N; b++ {
					got, err := r.MulCoeffs(tc.monomial(a), tc.monomial(b))
					require.NoError(t, err)

					want := r.NewPoly()
					if a+b < N {
						want.Coeffs[a+b] = r.Field.One()
					} else {
						want.Coeffs[a+b-N] = r.Field.Neg(r.Field.One())
					}
					require.True(t, got.Equal(want), "x^%d * x^%d", a, b)
				}
			}
		})

		t.Run(tc.name("Mul/Commutes"), func(t *testing.T) {
			a, b := tc.randPoly(t), tc.randPoly(t)
			ab, err := r.MulCoeffs(a, b)
			require.NoError(t, err)
			ba, err := r.MulCoeffs(b, a)
			require.NoError(t, err)
			require.True(t, ab.Equal(ba))
		})

		t.Run(tc.name("Mul/Associates"), func(t *testing.T) {
			a, b, c := tc.randPoly(t), tc.randPoly(t), tc.randPoly(t)
			ab, err := r.MulCoeffs(a, b)
			require.NoError(t, err)
			left, err := r.MulCoeffs(ab, c)
			require.NoError(t, err)
			bc, err := r.MulCoeffs(b, c)
			require.NoError(t, err)
			right, err := r.MulCoeffs(a, bc)
			require.NoError(t, err)
			require.True(t, left.Equal(right))
		})

		t.Run(tc.name("Mul/DistributesOverAdd"), func(t *testing.T) {
			a, b, c := tc.randPoly(t), tc.randPoly(t), tc.randPoly(t)
			bc, err := r.Add(b, c)
			require.NoError(t, err)
			left, err := r.MulCoeffs(a, bc)
			require.NoError(t, err)
			ab, err := r.MulCoeffs(a, b)
			require.NoError(t, err)
			ac, err := r.MulCoeffs(a, c)
			require.NoError(t, err)
			right, err := r.Add(ab, ac)
			require.NoError(t, err)
			require.True(t, left.Equal(right))
		})

		t.Run(tc.name("Mul/MatchesBigint"), func(t *testing.T) {
			a, b := tc.randPoly(t), tc.randPoly(t)
			want, err := r.MulCoeffs(a, b)
			require.NoError(t, err)
			exact, err := r.MulCoeffsBigint(a, b)
			require.NoError(t, err)
			got, err := r.FromBig(exact)
			require.NoError(t, err)
			require.True(t, got.Equal(want))
		})

		t.Run(tc.name("Mul/DegreeMismatch"), func(t *testing.T) {
			a := tc.randPoly(t)
			_, err := r.MulCoeffs(a, &Poly{Coeffs: a.Coeffs[:N-1]})
			require.Error(t, err)
		})
	}
}

func TestRotate(t *testing.T) {
	for _, N := range []int{8, 16} {
		tc := newTestContext(t, N)
		r := tc.ring

		t.Run(tc.name("Rotate/MatchesMonomialMul"), func(t *testing.T) {
			a := tc.randPoly(t)
			for k := 0; k < N; k++ {
				want, err := r.MulCoeffs(a, tc.monomial(k))
				require.NoError(t, err)
				got, err := r.Rotate(a, k)
				require.NoError(t, err)
				require.True(t, got.Equal(want), "k=%d", k)
			}
		})

		t.Run(tc.name("Rotate/PeriodTwoN"), func(t *testing.T) {
			a := tc.randPoly(t)

			byN, err := r.Rotate(a, N)
			require.NoError(t, err)
			neg, err := r.Neg(a)
			require.NoError(t, err)
			require.True(t, byN.Equal(neg))

			byTwoN, err := r.Rotate(a, 2*N)
			require.NoError(t, err)
			require.True(t, byTwoN.Equal(a))
		})

		t.Run(tc.name("Rotate/Composes"), func(t *testing.T) {
			a := tc.randPoly(t)
			for _, pair := range [][2]int{{1, 2}, {3, -5}, {-1, -1}, {N - 1, 1}} {
				first, err := r.Rotate(a, pair[0])
				require.NoError(t, err)
				both, err := r.Rotate(first, pair[1])
				require.NoError(t, err)
				direct, err := r.Rotate(a, pair[0]+pair[1])
				require.NoError(t, err)
				require.True(t, both.Equal(direct), "k=%d then %d", pair[0], pair[1])
			}
		})

		t.Run(tc.name("Rotate/NegativeInverts"), func(t *testing.T) {
			a := tc.randPoly(t)
			fwd, err := r.Rotate(a, 3)
			require.NoError(t, err)
			back, err := r.Rotate(fwd, -3)
			require.NoError(t, err)
			require.True(t, back.Equal(a))
		})
	}
}

func TestInverse(t *testing.T) {
	for _, N := range []int{8, 16} {
		tc := newTestContext(t, N)
		r := tc.ring

		t.Run(tc.name("Inverse/TimesSelfIsOne"), func(t *testing.T) {
			one := tc.monomial(0)
			for i := 0; i < 4; i++ {
				a := tc.randPoly(t)
				inv, err := r.Inverse(a)
				require.NoError(t, err)
				prod, err := r.MulCoeffs(a, inv)
				require.NoError(t, err)
				require.True(t, prod.Equal(one))
			}
		})

		t.Run(tc.name("Inverse/Monomial"), func(t *testing.T) {
			// The inverse of x is -x^(N-1).
			inv, err := r.Inverse(tc.monomial(1))
			require.NoError(t, err)
			want := r.NewPoly()
			want.Coeffs[N-1] = r.Field.Neg(r.Field.One())
			require.True(t, inv.Equal(want))
		})

		t.Run(tc.name("Inverse/ZeroFails"), func(t *testing.T) {
			_, err := r.Inverse(r.NewPoly())
			require.ErrorIs(t, err, fq.ErrNotInvertible)
		})
	}
}

func TestSamplers(t *testing.T) {
	tc := newTestContext(t, 16)
	r := tc.ring
	f := r.Field

	t.Run(tc.name("Uniform/Deterministic"), func(t *testing.T) {
		prng1, err := sampling.NewKeyedPRNG([]byte("seed"))
		require.NoError(t, err)
		prng2, err := sampling.NewKeyedPRNG([]byte("seed"))
		require.NoError(t, err)

		a, err := NewUniformSampler(prng1, r).ReadNew()
		require.NoError(t, err)
		b, err := NewUniformSampler(prng2, r).ReadNew()
		require.NoError(t, err)
		require.True(t, a.Equal(b))
	})

	t.Run(tc.name("Ternary/Support"), func(t *testing.T) {
		s := NewTernarySampler(tc.prng, r)
		for i := 0; i < 32; i++ {
			p, err := s.ReadNew()
			require.NoError(t, err)
			for _, c := range p.Coeffs {
				v := f.Centered(c).Int64()
				require.True(t, v >= -1 && v <= 1, "coefficient %d out of support", v)
			}
		}
	})

	t.Run(tc.name("Gaussian/Bounded"), func(t *testing.T) {
		const bound = 6
		s := NewGaussianSampler(tc.prng, r, 3.2, bound)
		for i := 0; i < 32; i++ {
			p, err := s.ReadNew()
			require.NoError(t, err)
			for _, c := range p.Coeffs {
				v := f.Centered(c).Int64()
				require.True(t, v >= -bound && v <= bound, "coefficient %d beyond bound", v)
			}
		}
	})
}

func TestBackend(t *testing.T) {
	tc := newTestContext(t, 8)
	r := tc.ring

	t.Run("Checked/MatchesScalar", func(t *testing.T) {
		a, b := tc.randPoly(t), tc.randPoly(t)
		want, err := r.MulCoeffs(a, b)
		require.NoError(t, err)

		checked, err := accel.NewChecked(accel.NewScalar(r.Field), 2)
		require.NoError(t, err)
		require.NoError(t, r.SetBackend(checked))
		got, err := r.MulCoeffs(a, b)
		require.NoError(t, err)
		require.True(t, got.Equal(want))
	})

	t.Run("RejectsForeignField", func(t *testing.T) {
		other, err := fq.NewFieldFromString(fq.Qi79)
		require.NoError(t, err)
		require.Error(t, r.SetBackend(accel.NewScalar(other)))
	})
}
