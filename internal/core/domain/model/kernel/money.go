package kernel

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ParseMoney accepts the string or number forms used by API clients ("10.90", 10.9).
func ParseMoney(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case string:
		return decimal.NewFromString(t)
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	default:
		return decimal.Zero, fmt.Errorf("%v is not a monetary amount", v)
	}
}

// SumMoney adds amounts without rounding intermediate values.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
