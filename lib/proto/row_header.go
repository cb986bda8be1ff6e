package proto

import (
	"github.com/pkg/errors"

	"github.com/orawire/orawire-go/lib/binary"
)

// BitVector marks which columns of a row were sent on the wire. Bit i
// (byte i/8, bit i%8, little-endian within the byte) set means column i is
// present; clear means the column repeats the previous row's value and was
// omitted to save bandwidth.
type BitVector []byte

// ColumnSent reports whether column i was carried on the wire.
// An empty vector means every column was sent.
func (bv BitVector) ColumnSent(i int) bool {
	if len(bv) == 0 {
		return true
	}
	if i/8 >= len(bv) {
		return false
	}
	return bv[i/8]&(1<<(i%8)) != 0
}

// DecodeBitVector reads a MsgBitVector payload: a bit count followed by the
// packed bytes.
func DecodeBitVector(dec *binary.Decoder) (BitVector, error) {
	bits, err := dec.UInt16()
	if err != nil {
		return nil, err
	}
	if bits > maxDescribeColumns {
		return nil, errors.Wrapf(binary.ErrMalformed, "bit vector claims %d columns", bits)
	}
	b, err := dec.Bytes((int(bits) + 7) / 8)
	if err != nil {
		return nil, err
	}
	out := make(BitVector, len(b))
	copy(out, b)
	return out, nil
}

// RowHeader precedes a group of row-data messages.
type RowHeader struct {
	Flags       uint8
	ColumnCount uint16
	IterCount   uint32
	BufferSize  uint32
	BitVector   BitVector
}

func (h *RowHeader) Decode(dec *binary.Decoder) error {
	var err error
	if h.Flags, err = dec.UInt8(); err != nil {
		return err
	}
	if h.ColumnCount, err = dec.UInt16(); err != nil {
		return err
	}
	if h.ColumnCount > maxDescribeColumns {
		return errors.Wrapf(binary.ErrMalformed, "row header claims %d columns", h.ColumnCount)
	}
	if h.IterCount, err = dec.UInt32(); err != nil {
		return err
	}
	if h.BufferSize, err = dec.UInt32(); err != nil {
		return err
	}
	// Optional bitmap: a zero length means every column follows inline.
	raw, err := dec.Clr()
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		if len(raw) < (int(h.ColumnCount)+7)/8 {
			return errors.Wrapf(binary.ErrMalformed, "bit vector of %d bytes for %d columns", len(raw), h.ColumnCount)
		}
		h.BitVector = BitVector(raw)
	}
	return nil
}
