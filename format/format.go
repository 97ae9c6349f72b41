// Package format provides stateless locale formatting helpers for values
// headed to user-facing surfaces: dates, grouped numbers and padded or
// masked strings. Nothing here touches table state; these are plain
// functions intended for use inside column formatters.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// dateReplacer maps the pattern tokens used throughout the original
// configuration surface (yyyy-MM-dd style) onto Go reference-time tokens.
var dateReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// Date formats t using a yyyy-MM-dd style pattern.
func Date(t time.Time, pattern string) string {
	return t.Format(dateReplacer.Replace(pattern))
}

// ParseDate parses s using a yyyy-MM-dd style pattern.
func ParseDate(s, pattern string) (time.Time, error) {
	return time.Parse(dateReplacer.Replace(pattern), s)
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Int renders n with locale-appropriate digit grouping ("1,234,567" for
// English, "1.234.567" for German, ...).
func Int(tag language.Tag, n int64) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(n))
}

// Float renders f with locale-appropriate grouping and exactly scale
// fraction digits.
func Float(tag language.Tag, f float64, scale int) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(scale),
		number.MaxFractionDigits(scale),
	))
}

// Percent renders the ratio f (0..1) as a locale-formatted percentage.
func Percent(tag language.Tag, f float64, scale int) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Percent(f,
		number.MinFractionDigits(scale),
		number.MaxFractionDigits(scale),
	))
}

// LPad left-pads s with pad runes up to width.
func LPad(s, pad string, width int) string {
	return padTo(s, pad, width) + s
}

// RPad right-pads s with pad runes up to width.
func RPad(s, pad string, width int) string {
	return s + padTo(s, pad, width)
}

func padTo(s, pad string, width int) string {
	if pad == "" {
		pad = " "
	}
	missing := width - len([]rune(s))
	if missing <= 0 {
		return ""
	}
	runes := []rune(pad)
	out := make([]rune, missing)
	for i := range out {
		out[i] = runes[i%len(runes)]
	}
	return string(out)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Mask replaces all but the last keep runes of s with '*'.
func Mask(s string, keep int) string {
	runes := []rune(s)
	if keep < 0 {
		keep = 0
	}
	if keep >= len(runes) {
		return s
	}
	masked := len(runes) - keep
	return strings.Repeat("*", masked) + string(runes[masked:])
}
