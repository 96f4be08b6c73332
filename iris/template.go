package iris

import (
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/inversed-tech/eyelid/utils"
	"github.com/inversed-tech/eyelid/utils/sampling"
)

// ErrInvalidInput is returned for templates of the wrong length and
// for decoded values outside the valid distance range.
var ErrInvalidInput = errors.New("iris: invalid input")

// Template is a fixed-length iris bit template. The feature
// extraction producing it is out of scope; the matcher only requires
// the length to agree with the profile.
type Template []bool

// NewTemplate returns a Template copying the given bits.
func NewTemplate(bits []bool) Template {
	return append(Template(nil), bits...)
}

// RandomTemplate samples a uniform template of length L.
func RandomTemplate(prng sampling.PRNG, L int) (Template, error) {
	buf := make([]byte, (L+7)/8)
	if _, err := prng.Read(buf); err != nil {
		return nil, fmt.Errorf("iris: template sampling: %w", err)
	}
	t := make(Template, L)
	for i := range t {
		t[i] = (buf[i/8]>>(i%8))&1 == 1
	}
	return t, nil
}

// Rotate returns the cyclic rotation of t by k positions:
// out[i] = t[(i-k) mod L]. Negative k rotates the other way.
func (t Template) Rotate(k int) Template {
	L := len(t)
	out := make(Template, L)
	for i := range out {
		out[i] = t[utils.Mod(i-k, L)]
	}
	return out
}

// FlipBits returns a copy of t with the bits at the given positions
// flipped.
func (t Template) FlipBits(positions ...int) Template {
	out := append(Template(nil), t...)
	for _, p := range positions {
		out[p] = !out[p]
	}
	return out
}

// Equal returns true if t and other hold the same bits.
func (t Template) Equal(other Template) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// HammingDistance returns the number of differing bit positions, the
// plaintext reference for the encrypted protocol.
func (t Template) HammingDistance(other Template) (int, error) {
	if len(t) != len(other) {
		return 0, fmt.Errorf("%w: template lengths %d and %d differ", ErrInvalidInput, len(t), len(other))
	}
	d := 0
	for i := range t {
		if t[i] != other[i] {
			d++
		}
	}
	return d, nil
}

// Digest returns the blake3 digest of the packed template bits.
func (t Template) Digest() [32]byte {
	buf := make([]byte, (len(t)+7)/8)
	for i, b := range t {
		if b {
			buf[i/8] |= 1 << (i % 8)
		}
	}
	return blake3.Sum256(buf)
}
