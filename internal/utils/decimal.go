package utils

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every amount, commission and percentage column.
const MoneyPlaces = 2

var (
	Hundred = decimal.NewFromInt(100)
	// MaxAmount is the first value that no longer fits a decimal(10,2) column.
	MaxAmount = decimal.New(1, 8)
)

// HasMoneyScale reports whether d has at most two decimal places.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Exponent() >= -MoneyPlaces || d.Equal(d.Truncate(MoneyPlaces))
}

// FormatMoney renders d with exactly two decimals, rounding half away from zero.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
