package proto

// TTC message type codes, the first byte of every data-packet payload.
const (
	MsgProtocol     = 1
	MsgDataTypes    = 2
	MsgFunction     = 3
	MsgError        = 4
	MsgRowHeader    = 6
	MsgRowData      = 7
	MsgParameter    = 8
	MsgStatus       = 9
	MsgIOVector     = 11
	MsgLOBData      = 14
	MsgWarning      = 15
	MsgDescribeInfo = 16
	MsgPiggyback    = 17
	MsgBitVector    = 21
	MsgServerToDos  = 23
)

// TTC function codes carried by MsgFunction.
const (
	FuncExecute = 0x5E // OALL8: parse/describe/execute/fetch combined
	FuncFetch   = 0x05 // OFETCH
	FuncClose   = 0x69 // OCCA: close cursors
)

// Execute option bits.
const (
	ExecOptionParse    = 0x01
	ExecOptionDescribe = 0x10
	ExecOptionExecute  = 0x20
	ExecOptionFetch    = 0x40
)

// Server error codes with protocol-level meaning.
const (
	ErrCodeNoDataFound         = 1403  // ORA-01403: normal end of fetch
	ErrCodeVarNotInSelectList  = 1007  // ORA-01007: cursor-fatal
	ErrCodeUserRequestedCancel = 1013  // ORA-01013: break acknowledged
	ErrCodeArrayDMLRowErrors   = 24381 // ORA-24381: per-row errors reported separately
)

// Integrity-constraint error codes. A statement failing on one of these
// leaves no cursor worth cleaning up.
const (
	ErrCodeUniqueViolated    = 1
	ErrCodeCannotInsertNull  = 1400
	ErrCodeCheckViolated     = 2290
	ErrCodeParentKeyNotFound = 2291
	ErrCodeChildRecordFound  = 2292
)
