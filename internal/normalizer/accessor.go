package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripease/internal/providers"
)

// accessor reads one candidate source value from a record.
type accessor func(rec providers.Record) (any, bool)

// key reads a top-level property.
func key(name string) accessor {
	return path(name)
}

// path walks nested objects. Numeric segments index into arrays.
func path(segments ...string) accessor {
	return func(rec providers.Record) (any, bool) {
		var cur any = map[string]any(rec)
		for _, seg := range segments {
			switch node := cur.(type) {
			case map[string]any:
				v, ok := node[seg]
				if !ok {
					return nil, false
				}
				cur = v
			case []any:
				i, err := strconv.Atoi(seg)
				if err != nil || i < 0 || i >= len(node) {
					return nil, false
				}
				cur = node[i]
			default:
				return nil, false
			}
		}
		if cur == nil {
			return nil, false
		}
		return cur, true
	}
}

// firstOf reads element 0 of an array property, or field sub of that element
// when sub is given.
func firstOf(name string, sub ...string) accessor {
	return path(append([]string{name, "0"}, sub...)...)
}

// scaled divides a numeric value, for ratings reported out of 10.
func scaled(get accessor, by float64) accessor {
	return func(rec providers.Record) (any, bool) {
		v, ok := get(rec)
		if !ok {
			return nil, false
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		return f / by, true
	}
}

// first returns the first accessor result that conv accepts.
func first[T any](rec providers.Record, chain []accessor, conv func(any) (T, bool)) (T, bool) {
	for _, get := range chain {
		v, ok := get(rec)
		if !ok {
			continue
		}
		if out, ok := conv(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return "", false
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		f, err = x.Float64()
	case string:
		f, err = strconv.ParseFloat(numericPart(x), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numericPart drops currency symbols and grouping commas from "₹1,250.00".
func numericPart(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, strings.TrimSpace(s))
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// toImageURL accepts a URL string or an object carrying url/src/href.
func toImageURL(v any) (string, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	if obj, ok := v.(map[string]any); ok {
		for _, k := range []string{"url", "src", "href"} {
			if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}

type money struct {
	amount   float64
	currency string
}

// toMoney accepts a number, a numeric string, or an object with
// total/amount/grandTotal and an optional currency.
func toMoney(v any) (money, bool) {
	if obj, ok := v.(map[string]any); ok {
		for _, k := range []string{"total", "amount", "grandTotal", "value", "base"} {
			raw, present := obj[k]
			if !present {
				continue
			}
			if f, ok := toFloat(raw); ok {
				m := money{amount: f}
				if c, ok := obj["currency"].(string); ok {
					m.currency = c
				}
				return m, true
			}
		}
		return money{}, false
	}
	f, ok := toFloat(v)
	if !ok {
		return money{}, false
	}
	return money{amount: f}, true
}
