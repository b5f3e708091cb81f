// Package billing holds the arithmetic behind service-delivery records: totals, split
// payments, outstanding balances and professional commissions. Amounts are whole Chilean
// pesos (int64); there is no minor unit.
package billing

import (
	"strconv"
	"strings"
)

const thousandsSep = "."

// FormatThousands renders n the es-CL way: "." every three digits, no decimals.
func FormatThousands(n int64) string {
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-(n + 1)) + 1
	}
	digits := strconv.FormatUint(u, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(thousandsSep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCLP is FormatThousands with a currency sign, as shown on receipts and exports.
func FormatCLP(n int64) string {
	return "$" + FormatThousands(n)
}

// ParseThousands is the permissive inverse of FormatThousands. Empty or non-numeric input
// yields 0.
func ParseThousands(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, thousandsSep, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
