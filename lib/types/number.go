// Package types converts raw wire value bytes into Go values. Only the
// NUMBER conversion lives here; the full type matrix is out of scope for
// the protocol engine.
package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// negTerminator closes a negative NUMBER shorter than the maximum length.
const negTerminator = 102

// DecodeNumber converts Oracle NUMBER wire bytes to a decimal.
//
// The first byte holds the sign (top bit set = positive) and a base-100
// exponent biased by 65. The remaining bytes are base-100 mantissa digits,
// stored as digit+1 for positive and 101-digit for negative values.
func DecodeNumber(b []byte) (decimal.Decimal, error) {
	if len(b) == 0 {
		return decimal.Decimal{}, errors.New("types: empty NUMBER value")
	}
	if len(b) == 1 && b[0] == 0x80 {
		return decimal.Zero, nil
	}

	var (
		negative bool
		exponent int
		mantissa = b[1:]
	)
	if b[0]&0x80 != 0 {
		exponent = int(b[0]&0x7f) - 65
	} else {
		negative = true
		exponent = int(^b[0]&0x7f) - 65
		if len(mantissa) > 0 && mantissa[len(mantissa)-1] == negTerminator {
			mantissa = mantissa[:len(mantissa)-1]
		}
	}
	if len(mantissa) == 0 || len(mantissa) > 20 {
		return decimal.Decimal{}, errors.Errorf("types: NUMBER mantissa of %d digits", len(mantissa))
	}

	var digits strings.Builder
	for _, m := range mantissa {
		var d int
		if negative {
			d = 101 - int(m)
		} else {
			d = int(m) - 1
		}
		if d < 0 || d > 99 {
			return decimal.Decimal{}, errors.Errorf("types: NUMBER digit byte 0x%02x", m)
		}
		fmt.Fprintf(&digits, "%02d", d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	// Value is 0.d1d2...dn * 100^(exponent+1).
	return decimal.NewFromString(fmt.Sprintf("%s0.%se%d", sign, digits.String(), 2*(exponent+1)))
}
