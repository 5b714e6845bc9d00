package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date resolved from text
type Date struct {
	ISO   string // YYYY-MM-DD
	Time  time.Time
	Raw   string
	Start int
	End   int
}

var (
	isoDate     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	numericDate = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})\b`)
	spanishDate = regexp.MustCompile(`(?i)\b(\d{1,2})(?:º|°)?\s+de\s+(\p{L}+)\s+(?:de(?:l)?\s+)?(\d{4})\b`)
	englishDate = regexp.MustCompile(`(?i)\b(\p{L}+)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	dayMonthEN  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(\p{L}+),?\s+(\d{4})\b`)
)

var monthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March, "abril": time.April,
	"mayo": time.May, "junio": time.June, "julio": time.July, "agosto": time.August,
	"septiembre": time.September, "setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
	"january": time.January, "february": time.February, "march": time.March, "april": time.April,
	"may": time.May, "june": time.June, "july": time.July, "august": time.August,
	"september": time.September, "october": time.October, "november": time.November,
	"december": time.December,
}

// ParseDates returns every valid date in text ordered by position.
// Impossible dates (31/02/2020) are dropped individually.
func ParseDates(text string) []Date {
	var out []Date

	for _, m := range numericDate.FindAllStringSubmatchIndex(text, -1) {
		day := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		year := expandYear(text[m[6]:m[7]])
		if d, ok := makeDate(year, time.Month(month), day); ok {
			out = append(out, withSpan(d, text, m[0], m[1]))
		}
	}

	for _, m := range isoDate.FindAllStringSubmatchIndex(text, -1) {
		if d, ok := makeDate(atoi(text[m[2]:m[3]]), time.Month(atoi(text[m[4]:m[5]])), atoi(text[m[6]:m[7]])); ok {
			out = append(out, withSpan(d, text, m[0], m[1]))
		}
	}

	for _, m := range spanishDate.FindAllStringSubmatchIndex(text, -1) {
		month, ok := monthNames[strings.ToLower(text[m[4]:m[5]])]
		if !ok {
			continue
		}
		if d, ok := makeDate(atoi(text[m[6]:m[7]]), month, atoi(text[m[2]:m[3]])); ok {
			out = append(out, withSpan(d, text, m[0], m[1]))
		}
	}

	for _, m := range englishDate.FindAllStringSubmatchIndex(text, -1) {
		month, ok := monthNames[strings.ToLower(text[m[2]:m[3]])]
		if !ok {
			continue
		}
		if d, ok := makeDate(atoi(text[m[6]:m[7]]), month, atoi(text[m[4]:m[5]])); ok {
			out = append(out, withSpan(d, text, m[0], m[1]))
		}
	}

	for _, m := range dayMonthEN.FindAllStringSubmatchIndex(text, -1) {
		month, ok := monthNames[strings.ToLower(text[m[4]:m[5]])]
		if !ok {
			continue
		}
		if d, ok := makeDate(atoi(text[m[6]:m[7]]), month, atoi(text[m[2]:m[3]])); ok {
			out = append(out, withSpan(d, text, m[0], m[1]))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return dedupeDates(out)
}

// FirstDate returns the earliest-positioned date in text
func FirstDate(text string) (Date, bool) {
	dates := ParseDates(text)
	if len(dates) == 0 {
		return Date{}, false
	}
	return dates[0], true
}

// DaysBetween returns the absolute number of whole days between two ISO dates
func DaysBetween(a, b string) (int, bool) {
	ta, err := time.Parse("2006-01-02", a)
	if err != nil {
		return 0, false
	}
	tb, err := time.Parse("2006-01-02", b)
	if err != nil {
		return 0, false
	}
	days := int(tb.Sub(ta).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, true
}

func makeDate(year int, month time.Month, day int) (Date, bool) {
	if month < time.January || month > time.December || day < 1 || year < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return Date{}, false
	}
	return Date{ISO: t.Format("2006-01-02"), Time: t}, true
}

func withSpan(d Date, text string, start, end int) Date {
	d.Raw = text[start:end]
	d.Start = start
	d.End = end
	return d
}

// expandYear maps two-digit years to 2000-2049 / 1950-1999
func expandYear(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		if y < 50 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// dedupeDates drops matches that overlap an earlier one
func dedupeDates(dates []Date) []Date {
	var out []Date
	lastEnd := -1
	for _, d := range dates {
		if d.Start < lastEnd {
			continue
		}
		out = append(out, d)
		lastEnd = d.End
	}
	return out
}
