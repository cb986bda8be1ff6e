package proto

import (
	"github.com/orawire/orawire-go/lib/binary"
)

// ExecuteRequest is the outbound OALL8 call: parse, describe and execute a
// statement in one round trip, optionally prefetching the first rows.
type ExecuteRequest struct {
	CursorID  uint32 // zero on first execution; server assigns one
	SQL       string
	Options   uint32 // ExecOption* bits
	FetchSize uint32 // rows to prefetch with the execute
}

func (r *ExecuteRequest) Encode(enc *binary.Encoder) error {
	if err := enc.Byte(MsgFunction); err != nil {
		return err
	}
	if err := enc.Byte(FuncExecute); err != nil {
		return err
	}
	if err := enc.UInt32(r.Options); err != nil {
		return err
	}
	if err := enc.UInt32(r.CursorID); err != nil {
		return err
	}
	if err := enc.Clr([]byte(r.SQL)); err != nil {
		return err
	}
	return enc.UInt32(r.FetchSize)
}

// FetchRequest is the outbound OFETCH call asking for more rows from an
// open cursor.
type FetchRequest struct {
	CursorID  uint32
	FetchSize uint32
}

func (r *FetchRequest) Encode(enc *binary.Encoder) error {
	if err := enc.Byte(MsgFunction); err != nil {
		return err
	}
	if err := enc.Byte(FuncFetch); err != nil {
		return err
	}
	if err := enc.UInt32(r.CursorID); err != nil {
		return err
	}
	return enc.UInt32(r.FetchSize)
}

// BreakMarker is the out-of-band interrupt sent to cancel an in-flight
// call. The server answers with ORA-01013 on the interrupted statement.
// Marker packets bypass the data-packet framing, so the three bytes are
// fixed: marker count, the break marker type, and the break byte itself.
func BreakMarker() []byte {
	return []byte{1, 0, 2}
}
