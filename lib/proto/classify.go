package proto

// Disposition is what a server error means for the statement that
// provoked it.
type Disposition int

const (
	// DispositionIgnorable: not an error at all — the server signals a
	// normal end of fetch this way. The statement completes successfully.
	DispositionIgnorable Disposition = iota

	// DispositionCursorFatal: the statement is dead and the server-side
	// cursor named by the error must be closed later.
	DispositionCursorFatal

	// DispositionStatementFatal: the statement is dead; whether the cursor
	// identifier is worth propagating depends on the exception category.
	DispositionStatementFatal
)

// Classify maps a server error code to its disposition. Pure; the same
// code always classifies the same way.
func Classify(code int) Disposition {
	switch code {
	case ErrCodeNoDataFound, ErrCodeArrayDMLRowErrors:
		return DispositionIgnorable
	case ErrCodeVarNotInSelectList:
		return DispositionCursorFatal
	}
	return DispositionStatementFatal
}

// Category is the coarse exception family of a server error code.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryIntegrity
)

// ExceptionCategory reports the exception family of a server error code.
// Integrity-constraint failures abort the call before a cursor exists, so
// errors in that family are forwarded without a cursor identifier.
func ExceptionCategory(code int) Category {
	switch code {
	case ErrCodeUniqueViolated,
		ErrCodeCannotInsertNull,
		ErrCodeCheckViolated,
		ErrCodeParentKeyNotFound,
		ErrCodeChildRecordFound:
		return CategoryIntegrity
	}
	return CategoryGeneric
}
