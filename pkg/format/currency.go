package format

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidMetric = errors.New("invalid metric")

const (
	currencyPrefix   = "R$ "
	thousandsSep     = "."
	decimalSep       = ","
	currencyDecimals = 2
)

// Currency formats v as Brazilian reais, e.g. 1234.5 -> "R$ 1.234,50".
// Values are rounded half away from zero to two decimals.
func Currency(v float64) (string, error) {
	if err := CheckFinite(v); err != nil {
		return "", err
	}

	d := decimal.NewFromFloat(v).Round(currencyDecimals)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + currencyPrefix + localize(d.StringFixed(currencyDecimals)), nil
}

// Percent formats v (already in percent units) with the given number of decimals: 12.5 -> "12,5%".
func Percent(v float64, decimals int) (string, error) {
	if err := CheckFinite(v); err != nil {
		return "", err
	}
	if decimals < 0 {
		decimals = 0
	}
	return localize(decimal.NewFromFloat(v).StringFixed(int32(decimals))) + "%", nil
}

// Ratio formats a plain ratio with two decimals: 1.45 -> "1,45".
func Ratio(v float64) (string, error) {
	if err := CheckFinite(v); err != nil {
		return "", err
	}
	return localize(decimal.NewFromFloat(v).StringFixed(2)), nil
}

func CheckFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v is not a finite number", ErrInvalidMetric, v)
	}
	return nil
}

// localize turns a plain "1234.50" rendering into "1.234,50".
func localize(plain string) string {
	negative := strings.HasPrefix(plain, "-")
	plain = strings.TrimPrefix(plain, "-")

	intPart, fracPart, hasFrac := strings.Cut(plain, ".")

	var sb strings.Builder
	if negative {
		sb.WriteString("-")
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteString(thousandsSep)
		}
		sb.WriteRune(digit)
	}
	if hasFrac {
		sb.WriteString(decimalSep)
		sb.WriteString(fracPart)
	}
	return sb.String()
}
