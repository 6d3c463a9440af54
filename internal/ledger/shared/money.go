package shared

import "github.com/shopspring/decimal"

// Amounts are stored and compared as exact decimals. No epsilon tolerance
// exists anywhere in the engine; two sides balance only when they are equal.

// Positive reports whether d is strictly greater than zero.
func Positive(d decimal.Decimal) bool {
	return d.Sign() > 0
}
