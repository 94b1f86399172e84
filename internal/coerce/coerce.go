// Package coerce converts loosely-typed record values into numbers and dates
// at the transform boundary. Coercion is deliberately permissive: aggregates
// over dirty uploads should complete rather than fail.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ToNumber converts a record value to a float64. Finite numbers pass through
// unchanged; strings get a permissive parse that strips currency symbols,
// thousands separators, and units. Anything unparseable becomes 0 so that
// sums and averages over dirty data still complete.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return ToNumber(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		return parseNumericString(n)
	default:
		return 0
	}
}

// AsNumber is the strict companion to ToNumber: it reports whether the value
// actually carried a number instead of defaulting to 0. Statistics and
// histograms use it to drop unparseable values; grouping transforms use
// ToNumber so dirty rows still contribute a 0.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return AsNumber(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
		// Accept a leading number with trailing units ("45m", "120 ft").
		end := 0
		for end < len(s) {
			c := s[end]
			if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
				end++
				continue
			}
			break
		}
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}

	// Strip everything that cannot be part of a number.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// dateLayouts are tried in order by ParseDate. The list mirrors the formats
// seen in real uploads: ISO dates, US dates, and bare year-months.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01",
	"2006",
}

// ParseDate attempts to interpret a record value as a date. It reports
// whether the parse succeeded. Numbers are never treated as dates.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, !d.IsZero()
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// IsDateLike reports whether a value is a date or a string that parses as
// one. Numbers and nil are never date-like.
func IsDateLike(v any) bool {
	_, ok := ParseDate(v)
	return ok
}

// FormatDate renders a date using simple token substitution. Supported
// tokens: YYYY, MM, DD (zero-padded) and M, D (unpadded). An invalid date is
// stringified and returned as-is; this function never fails.
func FormatDate(t time.Time, pattern string) string {
	if t.IsZero() {
		return fmt.Sprintf("%v", t)
	}

	r := strings.NewReplacer(
		"YYYY", strconv.Itoa(t.Year()),
		"MM", fmt.Sprintf("%02d", int(t.Month())),
		"DD", fmt.Sprintf("%02d", t.Day()),
	)
	out := r.Replace(pattern)
	// Unpadded variants are replaced after the padded ones so that "MM" is
	// not consumed as two "M" tokens.
	out = strings.ReplaceAll(out, "M", strconv.Itoa(int(t.Month())))
	out = strings.ReplaceAll(out, "D", strconv.Itoa(t.Day()))
	return out
}
