// Package currency renders prices for display.
package currency

import (
	"fmt"
	"math"
	"strings"
)

// zeroDecimal currencies are shown rounded to whole units.
var zeroDecimal = map[string]bool{
	"IDR": true,
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// Format renders amount as "<CODE> 1,234.50". Zero-decimal currencies are
// rounded, and IDR keeps its dot grouping ("IDR 1.250.000").
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	var formatted string
	if zeroDecimal[code] {
		sep := ","
		if code == "IDR" {
			sep = "."
		}
		formatted = addThousandsSeparator(fmt.Sprintf("%.0f", math.Round(amount)), sep)
	} else {
		s := fmt.Sprintf("%.2f", amount)
		whole, frac, _ := strings.Cut(s, ".")
		formatted = addThousandsSeparator(whole, ",") + "." + frac
	}

	result := code + " " + formatted
	if negative {
		result = "-" + result
	}
	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
