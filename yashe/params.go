// Package yashe implements the YASHE encryption scheme
// (https://eprint.iacr.org/2013/075) over the negacyclic ring of the
// ring package, restricted to circuits of exactly one homomorphic
// multiplication: products are decrypted with a derived key obtained
// by squaring the secret key, which replaces generic key switching.
package yashe

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/inversed-tech/eyelid/ring"
	"github.com/inversed-tech/eyelid/ring/fq"
)

// ParametersLiteral is the JSON-friendly description of a parameter
// set. Parameter sets are fixed per deployment profile and never come
// from untrusted input: wrong parameters break correctness or
// security silently, which is why NewParametersFromLiteral validates
// the one-multiplication noise budget up front.
type ParametersLiteral struct {
	// N is the ring degree, a power of two.
	N int

	// Q is the decimal representation of the coefficient modulus.
	Q string

	// T is the plaintext modulus, with T much smaller than Q.
	T uint64

	// Sigma is the standard deviation of the key and error
	// distributions.
	Sigma float64

	// Bound truncates the gaussian samplers; zero means 6*Sigma.
	Bound int64
}

// TestLiteral is the debug parameter set: tiny enough that failing
// values stay readable, large enough that one homomorphic
// multiplication still decrypts.
var TestLiteral = ParametersLiteral{
	N:     8,
	Q:     fq.QiTiny,
	T:     16,
	Sigma: 0.9,
}

// FullLiteral is the production parameter set from the original
// parameter report: a 79-bit prime with q = 1 mod t, ring degree
// 2048.
var FullLiteral = ParametersLiteral{
	N:     2048,
	Q:     fq.Qi79,
	T:     4096,
	Sigma: 3.2,
}

// Parameters is an immutable, validated parameter set.
type Parameters struct {
	ringQ *ring.Ring

	t     uint64
	tBig  *big.Int
	qBig  *big.Int
	qHalf *big.Int

	// qdt = floor(q/t) in Montgomery form, the encryption scaling.
	qdt fq.Elem

	sigma float64
	bound int64

	// noiseFresh and noiseMult are heuristic (central-limit) bounds
	// on the decryption noise of fresh and degree-two ciphertexts.
	noiseFresh *big.Float
	noiseMult  *big.Float
}

// NewParametersFromLiteral validates the literal and precomputes the
// ring, the Montgomery field and the noise bounds. A parameter set
// whose degree-two ciphertexts cannot provably decrypt is rejected
// here rather than failing at decryption time.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {

	field, err := fq.NewFieldFromString(lit.Q)
	if err != nil {
		return Parameters{}, fmt.Errorf("yashe: %w", err)
	}

	ringQ, err := ring.NewRing(lit.N, field)
	if err != nil {
		return Parameters{}, fmt.Errorf("yashe: %w", err)
	}

	if lit.T < 2 {
		return Parameters{}, fmt.Errorf("yashe: plaintext modulus %d: must be >= 2", lit.T)
	}

	qBig := field.Modulus()
	tBig := new(big.Int).SetUint64(lit.T)
	if tBig.Cmp(qBig) >= 0 {
		return Parameters{}, fmt.Errorf("yashe: plaintext modulus %d is not smaller than q", lit.T)
	}

	if lit.Sigma <= 0 {
		return Parameters{}, fmt.Errorf("yashe: sigma %f: must be positive", lit.Sigma)
	}

	bound := lit.Bound
	if bound == 0 {
		bound = int64(math.Ceil(6 * lit.Sigma))
	}

	p := Parameters{
		ringQ: ringQ,
		t:     lit.T,
		tBig:  tBig,
		qBig:  qBig,
		qHalf: field.ModulusHalf(),
		qdt:   field.FromBig(new(big.Int).Quo(qBig, tBig)),
		sigma: lit.Sigma,
		bound: bound,
	}

	p.noiseFresh, p.noiseMult = p.noiseBounds()

	// Fresh ciphertexts must decrypt: noise below q/2.
	// Degree-two ciphertexts must decrypt: noise below q/(2t).
	qF := new(big.Float).SetInt(qBig)
	freshCap := new(big.Float).Quo(qF, big.NewFloat(2))
	multCap := new(big.Float).Quo(freshCap, new(big.Float).SetUint64(lit.T))

	if p.noiseFresh.Cmp(freshCap) >= 0 {
		return Parameters{}, fmt.Errorf("yashe: fresh ciphertexts exceed the decryption bound (estimate 2^%.1f, cap 2^%.1f)",
			log2(p.noiseFresh), log2(freshCap))
	}
	if p.noiseMult.Cmp(multCap) >= 0 {
		return Parameters{}, fmt.Errorf("yashe: one multiplication exceeds the decryption bound (estimate 2^%.1f, cap 2^%.1f)",
			log2(p.noiseMult), log2(multCap))
	}

	return p, nil
}

// noiseBounds estimates the decryption noise of fresh and degree-two
// ciphertexts under the central-limit heuristic (ring expansion
// sqrt(N) rather than worst-case N), the model the original parameter
// report selects parameters with.
func (p Parameters) noiseBounds() (fresh, mult *big.Float) {

	sqrtN := big.NewFloat(math.Sqrt(float64(p.ringQ.N)))
	t := new(big.Float).SetUint64(p.t)
	b := new(big.Float).SetInt64(p.bound)
	one := big.NewFloat(1)

	// fresh = t*(2*t*sqrtN*B^2 + B) + rt*t*(1 + t*sqrtN*B)
	// with rt = q mod t, the scaling remainder.
	tsb := new(big.Float).Mul(t, sqrtN)
	tsb.Mul(tsb, b) // t*sqrtN*B

	inner := new(big.Float).Mul(tsb, b)
	inner.Mul(inner, big.NewFloat(2)) // 2*t*sqrtN*B^2
	inner.Add(inner, b)
	fresh = new(big.Float).Mul(t, inner)

	rt := new(big.Float).SetInt(new(big.Int).Mod(p.qBig, p.tBig))
	round := new(big.Float).Add(one, tsb)
	round.Mul(round, t)
	round.Mul(round, rt)
	fresh.Add(fresh, round)

	// mult = sqrtN*t*(V1 + V2) + sqrtN*t*V1*V2/q + t
	mult = new(big.Float).Add(fresh, fresh)
	mult.Mul(mult, t)
	mult.Mul(mult, sqrtN)

	cross := new(big.Float).Mul(fresh, fresh)
	cross.Mul(cross, t)
	cross.Mul(cross, sqrtN)
	cross.Quo(cross, new(big.Float).SetInt(p.qBig))

	mult.Add(mult, cross)
	mult.Add(mult, t)

	return fresh, mult
}

// NoiseMargin returns the number of bits separating the degree-two
// noise estimate from the decryption bound q/(2t). A correctly chosen
// parameter set has a strictly positive margin.
func (p Parameters) NoiseMargin() float64 {
	budget := new(big.Float).SetInt(p.qBig)
	budget.Quo(budget, new(big.Float).SetUint64(2*p.t))
	return log2(budget) - log2(p.noiseMult)
}

// log2 returns the base-two logarithm of x as a float64.
func log2(x *big.Float) float64 {
	l := bigfloat.Log(x)
	l.Quo(l, bigfloat.Log(big.NewFloat(2)))
	f, _ := l.Float64()
	return f
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.ringQ.N
}

// RingQ returns the ciphertext ring.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// T returns the plaintext modulus.
func (p Parameters) T() uint64 {
	return p.t
}

// TBig returns the plaintext modulus as a big integer.
func (p Parameters) TBig() *big.Int {
	return new(big.Int).Set(p.tBig)
}

// QBig returns the coefficient modulus.
func (p Parameters) QBig() *big.Int {
	return new(big.Int).Set(p.qBig)
}

// Sigma returns the standard deviation of the noise distributions.
func (p Parameters) Sigma() float64 {
	return p.sigma
}

// Bound returns the truncation bound of the noise distributions.
func (p Parameters) Bound() int64 {
	return p.bound
}

// Equal returns true if p and other describe the same parameter set.
func (p Parameters) Equal(other Parameters) bool {
	return p.ringQ.N == other.ringQ.N &&
		p.qBig.Cmp(other.qBig) == 0 &&
		p.t == other.t &&
		p.sigma == other.sigma &&
		p.bound == other.bound
}

// MarshalJSON implements json.Marshaler via the literal.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(ParametersLiteral{
		N:     p.ringQ.N,
		Q:     p.qBig.String(),
		T:     p.t,
		Sigma: p.sigma,
		Bound: p.bound,
	})
}

// UnmarshalJSON implements json.Unmarshaler, revalidating the
// literal.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var lit ParametersLiteral
	if err := json.Unmarshal(data, &lit); err != nil {
		return err
	}
	params, err := NewParametersFromLiteral(lit)
	if err != nil {
		return err
	}
	*p = params
	return nil
}
