package column

import (
	"fmt"

	"github.com/orawire/orawire-go/lib/binary"
)

// Type is an Oracle wire data type tag ("DTY" code) as it appears in a
// describe response.
type Type uint8

const (
	Varchar      Type = 1
	Number       Type = 2
	Long         Type = 8
	RowID        Type = 11
	Date         Type = 12
	Raw          Type = 23
	LongRaw      Type = 24
	Char         Type = 96
	BinaryFloat  Type = 100
	BinaryDouble Type = 101
	CLOB         Type = 112
	BLOB         Type = 113
	Timestamp    Type = 180
	TimestampTZ  Type = 181
	IntervalYM   Type = 182
	IntervalDS   Type = 183
	URowID       Type = 208
	TimestampLTZ Type = 231
	Boolean      Type = 252
)

func (t Type) String() string {
	switch t {
	case Varchar:
		return "VARCHAR2"
	case Number:
		return "NUMBER"
	case Long:
		return "LONG"
	case RowID:
		return "ROWID"
	case Date:
		return "DATE"
	case Raw:
		return "RAW"
	case LongRaw:
		return "LONG RAW"
	case Char:
		return "CHAR"
	case BinaryFloat:
		return "BINARY_FLOAT"
	case BinaryDouble:
		return "BINARY_DOUBLE"
	case CLOB:
		return "CLOB"
	case BLOB:
		return "BLOB"
	case Timestamp:
		return "TIMESTAMP"
	case TimestampTZ:
		return "TIMESTAMP WITH TIME ZONE"
	case IntervalYM:
		return "INTERVAL YEAR TO MONTH"
	case IntervalDS:
		return "INTERVAL DAY TO SECOND"
	case URowID:
		return "UROWID"
	case TimestampLTZ:
		return "TIMESTAMP WITH LOCAL TIME ZONE"
	case Boolean:
		return "BOOLEAN"
	}
	return fmt.Sprintf("TYPE(%d)", uint8(t))
}

// CharsetForm distinguishes database-charset from national-charset text.
type CharsetForm uint8

const (
	CharsetImplicit CharsetForm = 1 // database character set
	CharsetNational CharsetForm = 2 // NCHAR/NVARCHAR2/NCLOB
)

// Descriptor describes one result-set column. It is decoded once from the
// describe response and immutable for the life of the statement.
type Descriptor struct {
	Name        string
	DataType    Type
	CharsetForm CharsetForm
	BufferSize  uint32
	Precision   uint8
	Scale       uint8
	Nullable    bool
}

func (d *Descriptor) Decode(dec *binary.Decoder) error {
	dty, err := dec.UInt8()
	if err != nil {
		return err
	}
	d.DataType = Type(dty)
	flags, err := dec.UInt8()
	if err != nil {
		return err
	}
	d.Nullable = flags&0x01 != 0
	if d.Precision, err = dec.UInt8(); err != nil {
		return err
	}
	if d.Scale, err = dec.UInt8(); err != nil {
		return err
	}
	if d.BufferSize, err = dec.UInt32(); err != nil {
		return err
	}
	form, err := dec.UInt8()
	if err != nil {
		return err
	}
	d.CharsetForm = CharsetForm(form)
	name, err := dec.Clr()
	if err != nil {
		return err
	}
	d.Name = string(name)
	return nil
}

// UnsupportedTypeError reports a wire type tag this client has no value
// reader for.
type UnsupportedTypeError struct {
	t Type
}

func (u *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported column type %q", u.t)
}

var _ error = (*UnsupportedTypeError)(nil)
