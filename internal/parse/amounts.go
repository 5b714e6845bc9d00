package parse

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Amount is a monetary amount resolved from text
type Amount struct {
	Value    float64
	Currency string
	Raw      string
	Start    int
	End      int
}

// CloseTolerance is the relative difference under which two amounts agree
const CloseTolerance = 0.02

const numberPattern = `(\d[\d.,]*\d|\d)`

var (
	prefixAmount = regexp.MustCompile(`(?i)(US\$|U\$S|\bS/\.?|\$|€|£|\bUSD|\bEUR|\bGBP|\bARS|\bPEN)\s?` + numberPattern)
	suffixAmount = regexp.MustCompile(`(?i)` + numberPattern + `\s?(€|£|USD\b|EUR\b|GBP\b|ARS\b|PEN\b|pesos\b|soles\b|d[oó]lares\b|dollars\b|euros\b)`)
)

// CurrencySymbols maps a symbol or word to an ISO currency code
var CurrencySymbols = map[string]string{
	"us$":     "USD",
	"u$s":     "USD",
	"$":       "USD",
	"usd":     "USD",
	"dolares": "USD",
	"dólares": "USD",
	"dollars": "USD",
	"€":       "EUR",
	"eur":     "EUR",
	"euros":   "EUR",
	"£":       "GBP",
	"gbp":     "GBP",
	"ars":     "ARS",
	"pesos":   "ARS",
	"s/":      "PEN",
	"s/.":     "PEN",
	"pen":     "PEN",
	"soles":   "PEN",
}

// ParseAmounts returns every currency amount in text ordered by position.
// Tokens whose number cannot be normalized are dropped individually.
func ParseAmounts(text string) []Amount {
	var out []Amount

	for _, m := range prefixAmount.FindAllStringSubmatchIndex(text, -1) {
		cur, ok := CurrencySymbols[strings.ToLower(text[m[2]:m[3]])]
		if !ok {
			continue
		}
		value, err := NormalizeNumber(text[m[4]:m[5]])
		if err != nil {
			continue
		}
		out = append(out, Amount{Value: value, Currency: cur, Raw: text[m[0]:m[1]], Start: m[0], End: m[1]})
	}

	for _, m := range suffixAmount.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(out, m[0], m[1]) {
			continue
		}
		cur, ok := CurrencySymbols[strings.ToLower(text[m[4]:m[5]])]
		if !ok {
			continue
		}
		value, err := NormalizeNumber(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		out = append(out, Amount{Value: value, Currency: cur, Raw: text[m[0]:m[1]], Start: m[0], End: m[1]})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// FirstAmount returns the earliest-positioned amount in text
func FirstAmount(text string) (Amount, bool) {
	amounts := ParseAmounts(text)
	if len(amounts) == 0 {
		return Amount{}, false
	}
	return amounts[0], true
}

// NormalizeNumber resolves thousand and decimal separators:
//   - both '.' and ',' present: the right-most one is the decimal mark
//   - a single kind of separator: thousands when every group after it has
//     exactly three digits, otherwise the last one is the decimal mark
func NormalizeNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	var cleaned string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(s, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		cleaned = resolveSingle(s, ",")
	case lastDot >= 0:
		cleaned = resolveSingle(s, ".")
	default:
		cleaned = s
	}

	return strconv.ParseFloat(cleaned, 64)
}

func resolveSingle(s, sep string) string {
	groups := strings.Split(s, sep)
	thousands := true
	for _, g := range groups[1:] {
		if len(g) != 3 {
			thousands = false
			break
		}
	}
	if thousands {
		return strings.Join(groups, "")
	}
	if len(groups) > 2 {
		// 1,234,5 style: earlier separators group thousands, the last one is decimal
		return strings.Join(groups[:len(groups)-1], "") + "." + groups[len(groups)-1]
	}
	return groups[0] + "." + groups[1]
}

// AmountsClose reports whether two amounts agree: same currency and a
// relative difference under CloseTolerance.
func AmountsClose(aValue float64, aCurrency string, bValue float64, bCurrency string) bool {
	if aCurrency != bCurrency {
		return false
	}
	if aValue == bValue {
		return true
	}
	denom := math.Max(math.Abs(aValue), math.Abs(bValue))
	if denom == 0 {
		return true
	}
	return math.Abs(aValue-bValue)/denom < CloseTolerance
}

func overlaps(amounts []Amount, start, end int) bool {
	for _, a := range amounts {
		if start < a.End && a.Start < end {
			return true
		}
	}
	return false
}
