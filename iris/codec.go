package iris

import (
	"fmt"
	"math/big"

	"github.com/inversed-tech/eyelid/yashe"
)

// Encoder maps templates to ring plaintexts and decodes Hamming
// distances from decrypted results.
//
// A bit b becomes the coefficient (1 - 2b), so agreement contributes
// +1 and disagreement -1 to an inner product. The query is encoded in
// natural order and the enrolled template reversed: the coefficient
// of x^(L-1) in their ring product is then exactly
//
//	D = sum_i q_i * e_i = L - 2*HD,
//
// and with 2L <= N that coefficient never collects a wrapped
// (sign-flipped) term.
type Encoder struct {
	params Parameters
}

// NewEncoder creates an Encoder for the profile.
func NewEncoder(params Parameters) *Encoder {
	return &Encoder{params: params}
}

func (ecd *Encoder) checkTemplate(t Template) error {
	if len(t) != ecd.params.TemplateBits() {
		return fmt.Errorf("%w: template has %d bits, profile wants %d", ErrInvalidInput, len(t), ecd.params.TemplateBits())
	}
	return nil
}

func signOf(b bool) int64 {
	if b {
		return -1
	}
	return 1
}

// EncodeQuery encodes a query template in natural coefficient order.
func (ecd *Encoder) EncodeQuery(t Template) (*yashe.Plaintext, error) {
	if err := ecd.checkTemplate(t); err != nil {
		return nil, err
	}
	coeffs := make([]int64, ecd.params.Scheme().N())
	for i, b := range t {
		coeffs[i] = signOf(b)
	}
	return yashe.NewPlaintext(ecd.params.Scheme(), coeffs)
}

// EncodeEnrolled encodes an enrolled template in reversed coefficient
// order, the storage-side variant of the encoding.
func (ecd *Encoder) EncodeEnrolled(t Template) (*yashe.Plaintext, error) {
	if err := ecd.checkTemplate(t); err != nil {
		return nil, err
	}
	L := ecd.params.TemplateBits()
	coeffs := make([]int64, ecd.params.Scheme().N())
	for i, b := range t {
		coeffs[L-1-i] = signOf(b)
	}
	return yashe.NewPlaintext(ecd.params.Scheme(), coeffs)
}

// DecodeDistance reads the Hamming distance out of a decrypted
// product of an encoded query and an encoded enrolled template. The
// readout coefficient is centered modulo t and inverted through
// HD = (L - D) / 2; values outside the affine image of [0, L] are
// reported as ErrInvalidInput.
func (ecd *Encoder) DecodeDistance(pt *yashe.Plaintext) (int, error) {
	centered, err := pt.Centered(ecd.params.Scheme())
	if err != nil {
		return 0, err
	}
	L := ecd.params.TemplateBits()
	return ecd.distanceFromInner(centered[L-1])
}

func (ecd *Encoder) distanceFromInner(d int64) (int, error) {
	L := int64(ecd.params.TemplateBits())
	if d < -L || d > L || (L-d)%2 != 0 {
		return 0, fmt.Errorf("%w: decoded value %d is not a distance over %d bits", ErrInvalidInput, d, L)
	}
	return int((L - d) / 2), nil
}

// PlaintextDistance computes the distance on the unencrypted path:
// the encoded templates are multiplied directly in the ring and the
// readout coefficient reduced and centered modulo t, the same final
// reduction decryption applies. Plaintext coefficients live in [0, t),
// so the ring product sees t-1 where the encoding means -1; only
// modulo t is the readout the signed inner product. Tests use this
// path to pin the encrypted one to the encoding.
func (ecd *Encoder) PlaintextDistance(query, enrolled Template) (int, error) {
	q, err := ecd.EncodeQuery(query)
	if err != nil {
		return 0, err
	}
	e, err := ecd.EncodeEnrolled(enrolled)
	if err != nil {
		return 0, err
	}

	r := ecd.params.Scheme().RingQ()
	prod, err := r.MulCoeffs(q.Value, e.Value)
	if err != nil {
		return 0, err
	}

	L := ecd.params.TemplateBits()
	tBig := ecd.params.Scheme().TBig()
	d := r.Field.Centered(prod.Coeffs[L-1])
	d.Mod(d, tBig)
	if d.Cmp(new(big.Int).Rsh(tBig, 1)) > 0 {
		d.Sub(d, tBig)
	}
	return ecd.distanceFromInner(d.Int64())
}
