package binary

import (
	"github.com/pkg/errors"
)

var (
	// ErrInsufficientData signals that the inbound buffer ended mid-value.
	// It is recoverable: the cursor is left where the value started and the
	// caller retries once more bytes have arrived.
	ErrInsufficientData = errors.New("binary: insufficient data")

	// ErrMalformed signals a corrupt stream. The exchange is unusable.
	ErrMalformed = errors.New("binary: malformed stream")
)

// clrLongForm is the length byte announcing a chunked byte string.
const clrLongForm = 0xFE

// maxShortClr is the largest byte string the short form can carry.
const maxShortClr = 252

// NewDecoder returns a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Decoder is a cursor over a single inbound buffer. It is owned exclusively
// by the decode call in progress; nothing else may advance it.
type Decoder struct {
	buf []byte
	pos int
}

// Pos reports the cursor offset from the start of the buffer.
func (dec *Decoder) Pos() int {
	return dec.pos
}

// Rem reports how many bytes remain unread.
func (dec *Decoder) Rem() int {
	return len(dec.buf) - dec.pos
}

func (dec *Decoder) Byte() (byte, error) {
	if dec.Rem() < 1 {
		return 0, ErrInsufficientData
	}
	b := dec.buf[dec.pos]
	dec.pos++
	return b, nil
}

// Bytes returns the next n raw bytes. Reading zero bytes never advances the
// cursor and never fails. The returned slice aliases the buffer.
func (dec *Decoder) Bytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if dec.Rem() < n {
		return nil, ErrInsufficientData
	}
	b := dec.buf[dec.pos : dec.pos+n]
	dec.pos += n
	return b, nil
}

func (dec *Decoder) skip(n int) error {
	if dec.Rem() < n {
		return ErrInsufficientData
	}
	dec.pos += n
	return nil
}

// uint reads one length-prefixed unsigned integer of at most maxWidth bytes.
// A zero length byte denotes the value zero. Widths 1, 2, 4 and 8 (capped by
// maxWidth) are read big-endian. Anything else is a corrupt stream.
func (dec *Decoder) uint(maxWidth int) (uint64, error) {
	start := dec.pos
	ln, err := dec.Byte()
	if err != nil {
		return 0, err
	}
	switch {
	case ln == 0:
		return 0, nil
	case (ln == 1 || ln == 2 || ln == 4 || ln == 8) && int(ln) <= maxWidth:
	default:
		dec.pos = start
		return 0, errors.Wrapf(ErrMalformed, "length prefix 0x%02x for %d-byte integer", ln, maxWidth)
	}
	b, err := dec.Bytes(int(ln))
	if err != nil {
		dec.pos = start
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func (dec *Decoder) UInt8() (uint8, error) {
	v, err := dec.uint(1)
	return uint8(v), err
}

func (dec *Decoder) UInt16() (uint16, error) {
	v, err := dec.uint(2)
	return uint16(v), err
}

func (dec *Decoder) UInt32() (uint32, error) {
	v, err := dec.uint(4)
	return uint32(v), err
}

func (dec *Decoder) UInt64() (uint64, error) {
	return dec.uint(8)
}

// Clr reads one byte string. A zero length byte is the null/empty value.
// The long-form sentinel introduces a sequence of length-prefixed chunks
// terminated by a zero-length chunk; the chunks are assembled into one
// slice. On ErrInsufficientData the cursor is rewound to the start of the
// value so the read can be retried whole.
func (dec *Decoder) Clr() ([]byte, error) {
	start := dec.pos
	ln, err := dec.Byte()
	if err != nil {
		return nil, err
	}
	switch {
	case ln == 0:
		return nil, nil
	case ln != clrLongForm:
		b, err := dec.Bytes(int(ln))
		if err != nil {
			dec.pos = start
			return nil, err
		}
		return b, nil
	}
	var out []byte
	for {
		n, err := dec.UInt32()
		if err != nil {
			dec.pos = start
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		chunk, err := dec.Bytes(int(n))
		if err != nil {
			dec.pos = start
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// SkipClr advances past one byte string without assembling it.
func (dec *Decoder) SkipClr() error {
	start := dec.pos
	ln, err := dec.Byte()
	if err != nil {
		return err
	}
	switch {
	case ln == 0:
		return nil
	case ln != clrLongForm:
		if err := dec.skip(int(ln)); err != nil {
			dec.pos = start
			return err
		}
		return nil
	}
	for {
		n, err := dec.UInt32()
		if err != nil {
			dec.pos = start
			return err
		}
		if n == 0 {
			return nil
		}
		if err := dec.skip(int(n)); err != nil {
			dec.pos = start
			return err
		}
	}
}
