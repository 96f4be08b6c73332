package accel

import (
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
)

// Checked wraps an accelerated backend and recomputes a deterministic
// subset of every batch on the scalar reference path. Any divergence
// surfaces as ErrMismatch.
//
// The subset is every stride-th element, so a systematically wrong
// accelerated implementation is caught on the first batch while the
// verification overhead stays bounded.
type Checked struct {
	primary   Backend
	reference *Scalar
	stride    int
}

// NewChecked wraps primary with scalar cross-checking of every
// stride-th element. A stride of 1 verifies every element.
func NewChecked(primary Backend, stride int) (*Checked, error) {
	if stride < 1 {
		return nil, fmt.Errorf("accel: invalid verification stride %d", stride)
	}
	return &Checked{
		primary:   primary,
		reference: NewScalar(primary.Field()),
		stride:    stride,
	}, nil
}

// Field returns the wrapped backend's field.
func (c *Checked) Field() *fq.Field {
	return c.primary.Field()
}

// BatchAdd runs the batch on the primary backend and verifies a subset
// against the scalar path.
func (c *Checked) BatchAdd(a, b []fq.Elem) ([]fq.Elem, error) {
	out, err := c.primary.BatchAdd(a, b)
	if err != nil {
		return nil, err
	}
	if err := c.verify(a, b, out, c.reference.Field().Add); err != nil {
		return nil, err
	}
	return out, nil
}

// BatchMul runs the batch on the primary backend and verifies a subset
// against the scalar path.
func (c *Checked) BatchMul(a, b []fq.Elem) ([]fq.Elem, error) {
	out, err := c.primary.BatchMul(a, b)
	if err != nil {
		return nil, err
	}
	if err := c.verify(a, b, out, c.reference.Field().MRed); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Checked) verify(a, b, out []fq.Elem, op func(fq.Elem, fq.Elem) fq.Elem) error {
	if len(out) != len(a) {
		return fmt.Errorf("%w: batch of %d returned %d elements", ErrMismatch, len(a), len(out))
	}
	for i := 0; i < len(a); i += c.stride {
		if want := op(a[i], b[i]); !out[i].Equal(want) {
			return fmt.Errorf("%w: element %d", ErrMismatch, i)
		}
	}
	return nil
}
