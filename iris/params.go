// Package iris implements the privacy-preserving iris matcher: it
// encodes fixed-length bit templates into ring elements, runs the
// encrypted Hamming-distance protocol of the yashe package, and
// searches cyclic rotations for the best alignment.
package iris

import (
	"fmt"

	"github.com/inversed-tech/eyelid/yashe"
)

// ParametersLiteral describes a matching profile: the underlying
// scheme parameters plus the template geometry and decision rule.
// Profiles are fixed per build; they are never accepted from
// untrusted input.
type ParametersLiteral struct {
	Scheme yashe.ParametersLiteral

	// TemplateBits is the bit length L of a template. Encoding needs
	// 2L <= N so that the distance readout never wraps the
	// negacyclic boundary, and t > 2L so the centered distance is
	// unambiguous.
	TemplateBits int

	// RotationLimit is the alignment search window: offsets in
	// [-RotationLimit, +RotationLimit] are compared.
	RotationLimit int

	// MatchNumerator and MatchDenominator form the relative distance
	// threshold: a pair matches when HD * den <= L * num.
	MatchNumerator   int
	MatchDenominator int
}

// TestLiteral is the debug profile over the tiny scheme parameters.
var TestLiteral = ParametersLiteral{
	Scheme:           yashe.TestLiteral,
	TemplateBits:     4,
	RotationLimit:    1,
	MatchNumerator:   36,
	MatchDenominator: 100,
}

// FullLiteral is the production profile: 1024-bit templates over the
// degree-2048 ring, 36% relative Hamming distance threshold, rotation
// window of 15 columns either way.
var FullLiteral = ParametersLiteral{
	Scheme:           yashe.FullLiteral,
	TemplateBits:     1024,
	RotationLimit:    15,
	MatchNumerator:   36,
	MatchDenominator: 100,
}

// Parameters is a validated matching profile.
type Parameters struct {
	scheme yashe.Parameters

	templateBits  int
	rotationLimit int
	matchNum      int
	matchDen      int
}

// NewParametersFromLiteral validates the profile.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	scheme, err := yashe.NewParametersFromLiteral(lit.Scheme)
	if err != nil {
		return Parameters{}, err
	}

	L := lit.TemplateBits
	if L < 1 {
		return Parameters{}, fmt.Errorf("iris: template length %d: must be positive", L)
	}
	if 2*L > scheme.N() {
		return Parameters{}, fmt.Errorf("iris: template length %d needs ring degree >= %d, have %d", L, 2*L, scheme.N())
	}
	if uint64(2*L) >= scheme.T() {
		return Parameters{}, fmt.Errorf("iris: template length %d needs plaintext modulus > %d, have %d", L, 2*L, scheme.T())
	}
	if lit.RotationLimit < 0 || lit.RotationLimit >= L {
		return Parameters{}, fmt.Errorf("iris: rotation limit %d: must be in [0, %d)", lit.RotationLimit, L)
	}
	if lit.MatchDenominator < 1 || lit.MatchNumerator < 0 || lit.MatchNumerator > lit.MatchDenominator {
		return Parameters{}, fmt.Errorf("iris: invalid match threshold %d/%d", lit.MatchNumerator, lit.MatchDenominator)
	}

	return Parameters{
		scheme:        scheme,
		templateBits:  L,
		rotationLimit: lit.RotationLimit,
		matchNum:      lit.MatchNumerator,
		matchDen:      lit.MatchDenominator,
	}, nil
}

// Scheme returns the underlying scheme parameters.
func (p Parameters) Scheme() yashe.Parameters {
	return p.scheme
}

// TemplateBits returns the template length L.
func (p Parameters) TemplateBits() int {
	return p.templateBits
}

// RotationLimit returns the alignment search window.
func (p Parameters) RotationLimit() int {
	return p.rotationLimit
}

// MatchThreshold returns the relative distance threshold as a
// fraction.
func (p Parameters) MatchThreshold() (num, den int) {
	return p.matchNum, p.matchDen
}

// IsMatchDistance reports whether a Hamming distance is within the
// profile threshold.
func (p Parameters) IsMatchDistance(distance int) bool {
	return distance*p.matchDen <= p.templateBits*p.matchNum
}
