package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orawire/orawire-go/lib/binary"
	"github.com/orawire/orawire-go/lib/column"
)

func Test_Classify(t *testing.T) {
	for _, tt := range []struct {
		code int
		want Disposition
	}{
		{ErrCodeNoDataFound, DispositionIgnorable},
		{ErrCodeArrayDMLRowErrors, DispositionIgnorable},
		{ErrCodeVarNotInSelectList, DispositionCursorFatal},
		{0, DispositionStatementFatal},
		{ErrCodeUserRequestedCancel, DispositionStatementFatal},
		{942, DispositionStatementFatal},   // table or view does not exist
		{12899, DispositionStatementFatal}, // value too large for column
	} {
		assert.Equal(t, tt.want, Classify(tt.code), "ORA-%05d", tt.code)
	}
}

func Test_ExceptionCategory(t *testing.T) {
	for _, code := range []int{
		ErrCodeUniqueViolated,
		ErrCodeCannotInsertNull,
		ErrCodeCheckViolated,
		ErrCodeParentKeyNotFound,
		ErrCodeChildRecordFound,
	} {
		assert.Equal(t, CategoryIntegrity, ExceptionCategory(code), "ORA-%05d", code)
	}
	assert.Equal(t, CategoryGeneric, ExceptionCategory(942))
	assert.Equal(t, CategoryGeneric, ExceptionCategory(ErrCodeNoDataFound))
}

func Test_OracleErrorDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt32(1403))
	require.NoError(t, enc.UInt16(7))
	require.NoError(t, enc.Clr([]byte("ORA-01403: no data found\n")))

	var e OracleError
	require.NoError(t, e.Decode(binary.NewDecoder(buf.Bytes())))
	assert.Equal(t, 1403, e.Code)
	assert.Equal(t, 7, e.CursorID)
	assert.Equal(t, "ORA-01403: no data found", e.Message)
	assert.Equal(t, "ORA-01403: no data found", e.Error())

	assert.Equal(t, "ORA-00942", (&OracleError{Code: 942}).Error())
}

func encodeDescriptor(t *testing.T, enc *binary.Encoder, d column.Descriptor) {
	t.Helper()
	require.NoError(t, enc.UInt8(uint8(d.DataType)))
	flags := uint8(0)
	if d.Nullable {
		flags |= 0x01
	}
	require.NoError(t, enc.UInt8(flags))
	require.NoError(t, enc.UInt8(d.Precision))
	require.NoError(t, enc.UInt8(d.Scale))
	require.NoError(t, enc.UInt32(d.BufferSize))
	require.NoError(t, enc.UInt8(uint8(d.CharsetForm)))
	require.NoError(t, enc.Clr([]byte(d.Name)))
}

func Test_DescribeInfoDecode(t *testing.T) {
	want := []column.Descriptor{
		{Name: "ID", DataType: column.Number, CharsetForm: column.CharsetImplicit, BufferSize: 22, Precision: 10},
		{Name: "NAME", DataType: column.Varchar, CharsetForm: column.CharsetNational, BufferSize: 128, Nullable: true},
	}
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt16(uint16(len(want))))
	for _, d := range want {
		encodeDescriptor(t, enc, d)
	}

	var info DescribeInfo
	require.NoError(t, info.Decode(binary.NewDecoder(buf.Bytes())))
	assert.Equal(t, want, info.Columns)
}

func Test_DescribeInfoRejectsAbsurdColumnCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.NewEncoder(&buf).UInt16(50000))
	var info DescribeInfo
	assert.ErrorIs(t, info.Decode(binary.NewDecoder(buf.Bytes())), binary.ErrMalformed)
}

func Test_BitVector(t *testing.T) {
	bv := BitVector{0b00000001}
	assert.True(t, bv.ColumnSent(0))
	assert.False(t, bv.ColumnSent(1))

	bv = BitVector{0b10000000, 0b00000001}
	assert.False(t, bv.ColumnSent(0))
	assert.True(t, bv.ColumnSent(7))
	assert.True(t, bv.ColumnSent(8))
	assert.False(t, bv.ColumnSent(9))
	// beyond the vector means omitted
	assert.False(t, bv.ColumnSent(16))

	// an empty vector means every column was sent
	assert.True(t, BitVector(nil).ColumnSent(0))
	assert.True(t, BitVector(nil).ColumnSent(41))
}

func Test_DecodeBitVector(t *testing.T) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt16(10))
	require.NoError(t, enc.Bytes([]byte{0b00000101, 0b00000010}))

	bv, err := DecodeBitVector(binary.NewDecoder(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, bv, 2)
	assert.True(t, bv.ColumnSent(0))
	assert.False(t, bv.ColumnSent(1))
	assert.True(t, bv.ColumnSent(2))
	assert.True(t, bv.ColumnSent(9))
}

func Test_DecodeBitVectorRejectsAbsurdBitCount(t *testing.T) {
	// a wrapping bit count must not shrink the read below the claimed size
	var buf bytes.Buffer
	require.NoError(t, binary.NewEncoder(&buf).UInt16(65535))
	_, err := DecodeBitVector(binary.NewDecoder(buf.Bytes()))
	assert.ErrorIs(t, err, binary.ErrMalformed)
}

func Test_RowHeaderRejectsAbsurdColumnCount(t *testing.T) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt8(0))
	require.NoError(t, enc.UInt16(65535))
	require.NoError(t, enc.UInt32(1))
	require.NoError(t, enc.UInt32(0))
	require.NoError(t, enc.Clr([]byte{0xFF}))

	var h RowHeader
	assert.ErrorIs(t, h.Decode(binary.NewDecoder(buf.Bytes())), binary.ErrMalformed)
}

func Test_RowHeaderDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt8(0))
	require.NoError(t, enc.UInt16(2))
	require.NoError(t, enc.UInt32(10))
	require.NoError(t, enc.UInt32(4096))
	require.NoError(t, enc.Clr([]byte{0b00000010}))

	var h RowHeader
	require.NoError(t, h.Decode(binary.NewDecoder(buf.Bytes())))
	assert.Equal(t, uint16(2), h.ColumnCount)
	assert.Equal(t, uint32(10), h.IterCount)
	assert.False(t, h.BitVector.ColumnSent(0))
	assert.True(t, h.BitVector.ColumnSent(1))
}

func Test_RowHeaderWithoutBitVector(t *testing.T) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	require.NoError(t, enc.UInt8(0))
	require.NoError(t, enc.UInt16(3))
	require.NoError(t, enc.UInt32(1))
	require.NoError(t, enc.UInt32(0))
	require.NoError(t, enc.Clr(nil))

	var h RowHeader
	require.NoError(t, h.Decode(binary.NewDecoder(buf.Bytes())))
	assert.Nil(t, h.BitVector)
	assert.True(t, h.BitVector.ColumnSent(2))
}

func Test_ExecuteRequestEncode(t *testing.T) {
	var buf bytes.Buffer
	req := ExecuteRequest{
		SQL:       "select 1 from dual",
		Options:   ExecOptionParse | ExecOptionExecute | ExecOptionFetch,
		FetchSize: 25,
	}
	require.NoError(t, req.Encode(binary.NewEncoder(&buf)))

	dec := binary.NewDecoder(buf.Bytes())
	b, err := dec.Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(MsgFunction), b)
	b, err = dec.Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(FuncExecute), b)
	opts, err := dec.UInt32()
	require.NoError(t, err)
	assert.Equal(t, req.Options, opts)
	cursor, err := dec.UInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cursor)
	sql, err := dec.Clr()
	require.NoError(t, err)
	assert.Equal(t, req.SQL, string(sql))
	fetch, err := dec.UInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(25), fetch)
	assert.Equal(t, 0, dec.Rem())
}

func Test_FetchRequestEncode(t *testing.T) {
	var buf bytes.Buffer
	req := FetchRequest{CursorID: 4, FetchSize: 100}
	require.NoError(t, req.Encode(binary.NewEncoder(&buf)))

	dec := binary.NewDecoder(buf.Bytes())
	b, err := dec.Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(MsgFunction), b)
	b, err = dec.Byte()
	require.NoError(t, err)
	assert.Equal(t, byte(FuncFetch), b)
	cursor, err := dec.UInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), cursor)
	fetch, err := dec.UInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(100), fetch)
}
