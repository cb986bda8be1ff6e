package proto

import (
	"github.com/pkg/errors"

	"github.com/orawire/orawire-go/lib/binary"
	"github.com/orawire/orawire-go/lib/column"
)

// maxDescribeColumns bounds the column count a describe response may claim.
const maxDescribeColumns = 1000

// DescribeInfo is the server's declaration of a result set's shape. It is
// decoded exactly once per statement; the descriptors are immutable
// afterwards.
type DescribeInfo struct {
	Columns []column.Descriptor
}

func (d *DescribeInfo) Decode(dec *binary.Decoder) error {
	n, err := dec.UInt16()
	if err != nil {
		return err
	}
	if n > maxDescribeColumns {
		return errors.Wrapf(binary.ErrMalformed, "describe info claims %d columns", n)
	}
	d.Columns = make([]column.Descriptor, n)
	for i := range d.Columns {
		if err := d.Columns[i].Decode(dec); err != nil {
			return err
		}
	}
	return nil
}
