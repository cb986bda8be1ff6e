package column

import (
	"github.com/pkg/errors"

	"github.com/orawire/orawire-go/lib/binary"
)

// ReadValue reads one column value from the cursor and returns the raw
// value bytes, or nil for a NULL column. Conversion of the bytes into Go
// values is the caller's concern; this is only the wire-level extraction
// selected by the column's type tag.
func ReadValue(dec *binary.Decoder, d *Descriptor) ([]byte, error) {
	switch d.DataType {
	case Varchar, Char:
		// Charset form changes the post-decode character conversion, not
		// the wire layout.
		return dec.Clr()

	case Long, LongRaw, Raw, CLOB, BLOB:
		// Arbitrarily long values arrive chunked.
		return dec.Clr()

	case Number:
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		if len(v) > 21 {
			return nil, errors.Wrapf(binary.ErrMalformed, "NUMBER value of %d bytes", len(v))
		}
		return v, nil

	case Date, Timestamp, TimestampTZ, TimestampLTZ:
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		if v != nil && len(v) != 7 && len(v) != 11 && len(v) != 13 {
			return nil, errors.Wrapf(binary.ErrMalformed, "%s value of %d bytes", d.DataType, len(v))
		}
		return v, nil

	case IntervalYM, IntervalDS:
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		if v != nil && len(v) != 5 && len(v) != 11 {
			return nil, errors.Wrapf(binary.ErrMalformed, "%s value of %d bytes", d.DataType, len(v))
		}
		return v, nil

	case BinaryFloat, BinaryDouble:
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		want := 4
		if d.DataType == BinaryDouble {
			want = 8
		}
		if v != nil && len(v) != want {
			return nil, errors.Wrapf(binary.ErrMalformed, "%s value of %d bytes", d.DataType, len(v))
		}
		return v, nil

	case RowID, URowID:
		return dec.Clr()

	case Boolean:
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		if len(v) > 1 {
			// Servers pad booleans; only the last byte carries the value.
			v = v[len(v)-1:]
		}
		return v, nil
	}

	if d.BufferSize == 0 {
		// Nothing was allocated for this column; nothing is on the wire.
		return nil, nil
	}
	return nil, &UnsupportedTypeError{t: d.DataType}
}
