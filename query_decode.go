package orawire

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/orawire/orawire-go/lib/binary"
	"github.com/orawire/orawire-go/lib/column"
	"github.com/orawire/orawire-go/lib/driver"
)

func isInsufficient(err error) bool {
	return errors.Is(err, binary.ErrInsufficientData)
}

// decodeRow reads one row in descriptor order. Columns the bitmap marks as
// duplicates are carried forward from the previous row instead of being
// read from the wire; on the first row there is nothing to carry forward,
// so a duplicate marker there is a protocol violation.
func (q *Query) decodeRow(dec *binary.Decoder) (driver.DataRow, [][]byte, error) {
	cols := make([][]byte, len(q.desc))
	for i := range q.desc {
		if !q.bitVector.ColumnSent(i) {
			if q.prevRow == nil {
				return driver.DataRow{}, nil, errors.Wrapf(binary.ErrMalformed,
					"duplicate marker for column %d on the first row", i)
			}
			cols[i] = q.prevRow[i]
			continue
		}
		v, err := column.ReadValue(dec, &q.desc[i])
		if err != nil {
			return driver.DataRow{}, nil, err
		}
		// The value slice aliases the inbound buffer, which belongs to the
		// caller only for the duration of this call. The carry-forward
		// cache outlives it, so it must own its bytes.
		cols[i] = append([]byte(nil), v...)
	}
	row, err := flattenRow(cols)
	if err != nil {
		return driver.DataRow{}, nil, err
	}
	return row, cols, nil
}

// flattenRow packs the column values into one self-describing payload:
// each value length-prefixed, zero length meaning NULL (Oracle draws no
// distinction between empty and NULL). The consumer splits it back apart
// with the same codec.
func flattenRow(cols [][]byte) (driver.DataRow, error) {
	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	for _, v := range cols {
		if err := enc.Clr(v); err != nil {
			return driver.DataRow{}, err
		}
	}
	return driver.DataRow{Data: buf.Bytes(), Columns: len(cols)}, nil
}

// splitRow is flattenRow's inverse.
func splitRow(row driver.DataRow) ([][]byte, error) {
	dec := binary.NewDecoder(row.Data)
	cols := make([][]byte, row.Columns)
	for i := range cols {
		v, err := dec.Clr()
		if err != nil {
			return nil, err
		}
		cols[i] = v
	}
	if dec.Rem() != 0 {
		return nil, errors.Wrapf(binary.ErrMalformed, "%d trailing bytes in row payload", dec.Rem())
	}
	return cols, nil
}
