package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalRU возвращает строку в формате "100.000.000,00123":
// places знаков после запятой, лишние нули справа срезаются, но один знак остаётся.
func DecimalRU(v decimal.Decimal, places int32) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(places)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}

	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	// Форматируем целую часть с разделителями тысяч
	var out []byte
	cnt := 0
	for i := len(intPart) - 1; i >= 0; i-- {
		out = append(out, intPart[i])
		cnt++
		if cnt%3 == 0 && i != 0 {
			out = append(out, '.')
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	res := string(out) + "," + frac
	if neg && res != "0,0" {
		res = "-" + res
	}
	return res
}

// PercentRU — доля как проценты: 0.0417 -> "4,17%".
func PercentRU(v decimal.Decimal) string {
	return DecimalRU(v.Mul(decimal.NewFromInt(100)), 2) + "%"
}
