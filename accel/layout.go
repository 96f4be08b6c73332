package accel

import (
	"encoding/binary"
	"fmt"

	"github.com/inversed-tech/eyelid/ring/fq"
)

// ElemSize is the wire size of one field element: two little-endian
// 64-bit limbs.
const ElemSize = 16

// EncodeVec writes the raw limb layout of src into dst, which must
// hold len(src)*ElemSize bytes. This is the byte encoding shared with
// out-of-process accelerators; both sides must agree on it bit for
// bit.
func EncodeVec(dst []byte, src []fq.Elem) error {
	if len(dst) < len(src)*ElemSize {
		return fmt.Errorf("accel: destination of %d bytes cannot hold %d elements", len(dst), len(src))
	}
	for i, e := range src {
		binary.LittleEndian.PutUint64(dst[i*ElemSize:], e[0])
		binary.LittleEndian.PutUint64(dst[i*ElemSize+8:], e[1])
	}
	return nil
}

// DecodeVec reads len(dst) elements from the raw limb layout in src.
func DecodeVec(dst []fq.Elem, src []byte) error {
	if len(src) < len(dst)*ElemSize {
		return fmt.Errorf("accel: source of %d bytes cannot provide %d elements", len(src), len(dst))
	}
	for i := range dst {
		dst[i][0] = binary.LittleEndian.Uint64(src[i*ElemSize:])
		dst[i][1] = binary.LittleEndian.Uint64(src[i*ElemSize+8:])
	}
	return nil
}
