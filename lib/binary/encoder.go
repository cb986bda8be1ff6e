package binary

import (
	"io"
)

// maxChunk is the chunk size used when writing long-form byte strings.
const maxChunk = 32767

func NewEncoder(output io.Writer) *Encoder {
	return &Encoder{
		output: output,
	}
}

type Encoder struct {
	output  io.Writer
	scratch [9]byte
}

func (enc *Encoder) Byte(v byte) error {
	enc.scratch[0] = v
	if _, err := enc.output.Write(enc.scratch[:1]); err != nil {
		return err
	}
	return nil
}

func (enc *Encoder) Bytes(v []byte) error {
	if len(v) == 0 {
		return nil
	}
	if _, err := enc.output.Write(v); err != nil {
		return err
	}
	return nil
}

// uint writes v length-prefixed in the smallest of the given widths.
// Encoding is canonical: the same value always produces the same bytes.
func (enc *Encoder) uint(v uint64, widths ...int) error {
	if v == 0 {
		return enc.Byte(0)
	}
	for _, w := range widths {
		if w != 8 && v >= uint64(1)<<(8*w) {
			continue
		}
		enc.scratch[0] = byte(w)
		for i := 0; i < w; i++ {
			enc.scratch[1+i] = byte(v >> (8 * (w - 1 - i)))
		}
		if _, err := enc.output.Write(enc.scratch[:1+w]); err != nil {
			return err
		}
		return nil
	}
	panic("binary: value out of range for requested widths")
}

func (enc *Encoder) UInt8(v uint8) error {
	return enc.uint(uint64(v), 1)
}

func (enc *Encoder) UInt16(v uint16) error {
	return enc.uint(uint64(v), 1, 2)
}

func (enc *Encoder) UInt32(v uint32) error {
	return enc.uint(uint64(v), 1, 2, 4)
}

func (enc *Encoder) UInt64(v uint64) error {
	return enc.uint(v, 1, 2, 4, 8)
}

// Clr writes one byte string: short form up to 252 bytes, long form
// (sentinel plus length-prefixed chunks, zero-length terminator) beyond.
// A nil or empty value is written as the single zero length byte.
func (enc *Encoder) Clr(v []byte) error {
	if len(v) == 0 {
		return enc.Byte(0)
	}
	if len(v) <= maxShortClr {
		if err := enc.Byte(byte(len(v))); err != nil {
			return err
		}
		return enc.Bytes(v)
	}
	if err := enc.Byte(clrLongForm); err != nil {
		return err
	}
	for len(v) > 0 {
		n := len(v)
		if n > maxChunk {
			n = maxChunk
		}
		if err := enc.UInt32(uint32(n)); err != nil {
			return err
		}
		if err := enc.Bytes(v[:n]); err != nil {
			return err
		}
		v = v[n:]
	}
	return enc.UInt32(0)
}
