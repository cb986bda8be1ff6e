package driver

// DataRow is one decoded row: the column values flattened into a single
// payload (each value re-encoded length-prefixed, zero length meaning
// NULL) plus the column count. Ownership passes to the consumer; the
// protocol engine never touches a row again after producing it.
type DataRow struct {
	Data    []byte
	Columns int
}

type (
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Columns() []string
		Close() error
		Err() error
	}
	Row interface {
		Err() error
		Scan(dest ...any) error
	}
)
