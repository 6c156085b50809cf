// Package money formats Colombian peso amounts for display.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCOP rounds to whole pesos and formats with dot thousands separators,
// e.g. 276972.5 -> "$276.973".
func FormatCOP(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	neg := whole < 0
	if neg {
		whole = -whole
	}

	s := strconv.FormatInt(whole, 10)
	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
