package orawire

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/orawire/orawire-go/lib/column"
	"github.com/orawire/orawire-go/lib/driver"
	"github.com/orawire/orawire-go/lib/types"
)

// Rows is the application-facing row stream. The connection loop feeds it
// by executing the engine's deliver actions (PushBatch, Complete, Fail);
// the consumer pulls with Next, which triggers RequestMoreRows through the
// pull callback when the local queue runs dry.
type Rows struct {
	handle *ResultHandle
	pull   func() error

	queue  []driver.DataRow
	cur    [][]byte
	err    error
	done   bool
	closed bool
}

func NewRows(handle *ResultHandle, pull func() error) *Rows {
	return &Rows{handle: handle, pull: pull}
}

var _ driver.Rows = (*Rows)(nil)

// PushBatch appends a delivered batch. Batches arrive in decode order and
// are handed out in the same order.
func (r *Rows) PushBatch(batch []driver.DataRow) {
	r.queue = append(r.queue, batch...)
}

// Complete marks a successful end of the stream.
func (r *Rows) Complete() {
	r.done = true
}

// Fail terminates the stream with err. Exactly one terminal notification
// per statement reaches the consumer.
func (r *Rows) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.done = true
}

func (r *Rows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	for len(r.queue) == 0 {
		if r.done || r.pull == nil {
			return false
		}
		if err := r.pull(); err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
	}
	row := r.queue[0]
	r.queue = r.queue[1:]
	cols, err := splitRow(row)
	if err != nil {
		r.err = err
		return false
	}
	r.cur = cols
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.cur == nil {
		return fmt.Errorf("orawire: Scan called without a successful Next")
	}
	if len(dest) != len(r.cur) {
		return fmt.Errorf("orawire: expected %d destination arguments in Scan, not %d", len(r.cur), len(dest))
	}
	for i, d := range dest {
		if err := r.scanColumn(d, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rows) scanColumn(dest any, i int) error {
	v := r.cur[i]
	switch d := dest.(type) {
	case nil:
		return nil
	case *[]byte:
		*d = v
	case *string:
		*d = string(v)
	case *bool:
		*d = len(v) == 1 && v[0] != 0
	case *decimal.Decimal:
		if v == nil {
			*d = decimal.Decimal{}
			return nil
		}
		if r.handle.Columns[i].DataType != column.Number {
			return fmt.Errorf("orawire: column %q is %s, not NUMBER",
				r.handle.Columns[i].Name, r.handle.Columns[i].DataType)
		}
		n, err := types.DecodeNumber(v)
		if err != nil {
			return err
		}
		*d = n
	default:
		return fmt.Errorf("orawire: unsupported Scan destination %T for column %q", dest, r.handle.Columns[i].Name)
	}
	return nil
}

func (r *Rows) Columns() []string {
	names := make([]string, len(r.handle.Columns))
	for i := range r.handle.Columns {
		names[i] = r.handle.Columns[i].Name
	}
	return names
}

func (r *Rows) Close() error {
	r.closed = true
	r.queue = nil
	r.cur = nil
	return nil
}

func (r *Rows) Err() error {
	return r.err
}
