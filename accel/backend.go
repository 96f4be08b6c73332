// Package accel defines the batched execution backend used to offload
// bulk field arithmetic, together with a scalar reference backend and
// a checked wrapper that cross-validates an accelerated backend
// against the scalar one.
//
// A backend is a drop-in throughput replacement for the inner loops of
// polynomial multiplication: it must return, element for element, the
// exact limbs the scalar path produces. Backends share the field's
// little-endian limb layout and its compile-time Montgomery constants;
// nothing about the arithmetic is negotiable at run time.
package accel

import (
	"errors"
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
)

// ErrMismatch is returned by the checked backend when the accelerated
// path disagrees with the scalar path on any verified element. It
// indicates a correctness-breaking divergence between the two
// implementations and must be treated as fatal.
var ErrMismatch = errors.New("accel: accelerated backend disagrees with scalar reference")

// Backend executes element-wise batches of field operations. Inputs
// are Montgomery-form elements of the backend's field; implementations
// must not retain or mutate the input slices.
type Backend interface {
	// BatchAdd returns out[i] = a[i] + b[i] mod q.
	BatchAdd(a, b []fq.Elem) ([]fq.Elem, error)

	// BatchMul returns the Montgomery products out[i] = a[i]*b[i]*R^-1 mod q.
	BatchMul(a, b []fq.Elem) ([]fq.Elem, error)

	// Field returns the field the backend operates on.
	Field() *fq.Field
}

// Scalar is the reference backend. It runs every batch through the
// scalar field arithmetic on the calling goroutine.
type Scalar struct {
	field *fq.Field
}

// NewScalar returns the scalar reference backend for the given field.
func NewScalar(field *fq.Field) *Scalar {
	return &Scalar{field: field}
}

// Field returns the backend's field.
func (s *Scalar) Field() *fq.Field {
	return s.field
}

// BatchAdd returns the element-wise modular sums of a and b.
func (s *Scalar) BatchAdd(a, b []fq.Elem) ([]fq.Elem, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("accel: batch length mismatch: %d != %d", len(a), len(b))
	}
	out := make([]fq.Elem, len(a))
	for i := range a {
		out[i] = s.field.Add(a[i], b[i])
	}
	return out, nil
}

// BatchMul returns the element-wise Montgomery products of a and b.
func (s *Scalar) BatchMul(a, b []fq.Elem) ([]fq.Elem, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("accel: batch length mismatch: %d != %d", len(a), len(b))
	}
	out := make([]fq.Elem, len(a))
	for i := range a {
		out[i] = s.field.MRed(a[i], b[i])
	}
	return out, nil
}
