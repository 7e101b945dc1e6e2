package utils

import (
	"strconv"
	"strings"
)

// FormatVND formats an integer amount (in VND) as a string like "125.000₫".
// Uses dot as thousands separator (common in Vietnam), symbol after the
// number.
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)

	var b strings.Builder
	// Pre-allocate: sign + digits + separators + symbol
	b.Grow(len(s) + len(s)/3 + 4)
	if neg {
		b.WriteByte('-')
	}

	if len(s) <= 3 {
		b.WriteString(s)
		b.WriteString("₫")
		return b.String()
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	b.WriteString("₫")
	return b.String()
}
