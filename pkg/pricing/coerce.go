package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce clamps negative amounts to zero.
func Coerce(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// CoerceString parses a decimal string; anything unparsable becomes zero.
func CoerceString(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return Coerce(parsed)
}
