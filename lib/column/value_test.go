package column

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orawire/orawire-go/lib/binary"
)

func clr(t *testing.T, v []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.NewEncoder(&buf).Clr(v))
	return buf.Bytes()
}

func Test_ReadValueDispatch(t *testing.T) {
	for _, tt := range []struct {
		name string
		desc Descriptor
		wire []byte
		want []byte
	}{
		{
			name: "varchar",
			desc: Descriptor{DataType: Varchar, CharsetForm: CharsetImplicit, BufferSize: 10},
			wire: clr(t, []byte("hello")),
			want: []byte("hello"),
		},
		{
			name: "nvarchar form does not change the wire layout",
			desc: Descriptor{DataType: Varchar, CharsetForm: CharsetNational, BufferSize: 10},
			wire: clr(t, []byte("hi")),
			want: []byte("hi"),
		},
		{
			name: "null string",
			desc: Descriptor{DataType: Varchar, BufferSize: 10},
			wire: clr(t, nil),
			want: nil,
		},
		{
			name: "number",
			desc: Descriptor{DataType: Number, BufferSize: 22},
			wire: clr(t, []byte{0xC2, 0x02, 0x18}),
			want: []byte{0xC2, 0x02, 0x18},
		},
		{
			name: "date",
			desc: Descriptor{DataType: Date, BufferSize: 7},
			wire: clr(t, []byte{120, 124, 8, 23, 1, 1, 1}),
			want: []byte{120, 124, 8, 23, 1, 1, 1},
		},
		{
			name: "binary double",
			desc: Descriptor{DataType: BinaryDouble, BufferSize: 8},
			wire: clr(t, []byte{0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18}),
			want: []byte{0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18},
		},
		{
			name: "boolean padded to last byte",
			desc: Descriptor{DataType: Boolean, BufferSize: 4},
			wire: clr(t, []byte{0, 0, 1}),
			want: []byte{1},
		},
		{
			name: "unknown type with zero buffer is a null column",
			desc: Descriptor{DataType: Type(99), BufferSize: 0},
			wire: []byte{0xEE}, // must not be read at all
			want: nil,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dec := binary.NewDecoder(tt.wire)
			got, err := ReadValue(dec, &tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.desc.DataType == Type(99) {
				assert.Equal(t, 0, dec.Pos(), "null column must not consume bytes")
			}
		})
	}
}

func Test_ReadValueUnsupported(t *testing.T) {
	desc := Descriptor{DataType: Type(99), BufferSize: 16}
	_, err := ReadValue(binary.NewDecoder([]byte{1, 0xAA}), &desc)
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "unsupported column type")
}

func Test_ReadValueWidthValidation(t *testing.T) {
	desc := Descriptor{DataType: BinaryFloat, BufferSize: 4}
	_, err := ReadValue(binary.NewDecoder(clr(t, []byte{1, 2, 3})), &desc)
	assert.ErrorIs(t, err, binary.ErrMalformed)

	desc = Descriptor{DataType: Date, BufferSize: 7}
	_, err = ReadValue(binary.NewDecoder(clr(t, []byte{1, 2, 3})), &desc)
	assert.ErrorIs(t, err, binary.ErrMalformed)

	desc = Descriptor{DataType: Number, BufferSize: 22}
	_, err = ReadValue(binary.NewDecoder(clr(t, bytes.Repeat([]byte{2}, 22))), &desc)
	assert.ErrorIs(t, err, binary.ErrMalformed)
}

func Test_ReadValueInsufficientData(t *testing.T) {
	desc := Descriptor{DataType: Varchar, BufferSize: 10}
	dec := binary.NewDecoder([]byte{5, 'h', 'i'})
	_, err := ReadValue(dec, &desc)
	if assert.ErrorIs(t, err, binary.ErrInsufficientData) {
		assert.Equal(t, 0, dec.Pos())
	}
}

func Test_TypeString(t *testing.T) {
	assert.Equal(t, "NUMBER", Number.String())
	assert.Equal(t, "VARCHAR2", Varchar.String())
	assert.Equal(t, "TYPE(99)", Type(99).String())
}

func Test_DescriptorDecodeRoundTrip(t *testing.T) {
	want := Descriptor{
		Name:        "SALARY",
		DataType:    Number,
		CharsetForm: CharsetImplicit,
		BufferSize:  22,
		Precision:   8,
		Scale:       2,
		Nullable:    true,
	}
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt8(uint8(want.DataType)))
	require.NoError(t, enc.UInt8(0x01))
	require.NoError(t, enc.UInt8(want.Precision))
	require.NoError(t, enc.UInt8(want.Scale))
	require.NoError(t, enc.UInt32(want.BufferSize))
	require.NoError(t, enc.UInt8(uint8(want.CharsetForm)))
	require.NoError(t, enc.Clr([]byte(want.Name)))

	var got Descriptor
	require.NoError(t, got.Decode(binary.NewDecoder(buf.Bytes())))
	assert.Equal(t, want, got)
}
