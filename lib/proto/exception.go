package proto

import (
	"fmt"
	"strings"

	"github.com/orawire/orawire-go/lib/binary"
)

// OracleError is a server-reported error as carried by a MsgError payload.
// It is constructed from wire bytes and never mutated; classification
// (see classify.go) decides what it means for the statement.
type OracleError struct {
	Code     int
	CursorID int
	Message  string
}

func (e *OracleError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("ORA-%05d", e.Code)
}

func (e *OracleError) Decode(dec *binary.Decoder) error {
	code, err := dec.UInt32()
	if err != nil {
		return err
	}
	e.Code = int(code)
	cursor, err := dec.UInt16()
	if err != nil {
		return err
	}
	e.CursorID = int(cursor)
	msg, err := dec.Clr()
	if err != nil {
		return err
	}
	e.Message = strings.TrimRight(string(msg), "\n")
	return nil
}
