package fq

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Rand returns a uniformly distributed element, in Montgomery form,
// read from the given source of randomness. Limbs above the modulus
// are rejected and resampled, so the distribution is exactly uniform
// over [0, q).
func (f *Field) Rand(source io.Reader) (Elem, error) {

	buf := make([]byte, 16)

	for {
		if _, err := io.ReadFull(source, buf); err != nil {
			return Elem{}, fmt.Errorf("fq: sampling failed: %w", err)
		}

		var e Elem
		e[0] = binary.LittleEndian.Uint64(buf[:8])
		e[1] = binary.LittleEndian.Uint64(buf[8:])

		if f.bitLen > 64 {
			e[1] &= f.mask
		} else {
			e[0] &= f.mask
			e[1] = 0
		}

		if geq(e, Elem(f.q)) {
			continue
		}

		return f.MForm(e), nil
	}
}
