// =============================================================================
// Addenda Generator - Numeric and Text Formatting
// =============================================================================
//
// Every number in the generated addenda goes through this file. Values are
// read leniently (a numeric prefix is enough, anything else becomes NaN) and
// written with a fixed number of fractional digits.
//
// ROUNDING:
//   Rounding works on the exact binary value of the float64 and goes half
//   away from zero. 0.125 is exactly representable and becomes "0.13", while
//   1.005 is stored as 1.00499999999999989... and becomes "1.00".
//   strconv alone rounds exact ties to even, hence the decimal step.
//
// =============================================================================

package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the longest leading number in a string.
var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// =============================================================================
// PARSING
// =============================================================================

// ParseFloat reads the leading number of s.
//
// Leading whitespace is skipped and trailing garbage is ignored, so "12.5kg"
// yields 12.5. A string with no numeric prefix (including the empty string)
// yields NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	m := numericPrefix.FindStringSubmatch(s)
	if m == nil {
		return math.NaN()
	}

	token := m[0]
	if m[1] == "Infinity" {
		if strings.HasPrefix(token, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	// The regexp already guarantees a well-formed literal; ParseFloat only
	// fails here on range errors, where it still returns ±Inf or 0.
	f, _ := strconv.ParseFloat(token, 64)
	return f
}

// =============================================================================
// RENDERING
// =============================================================================

// FormatFixed renders f with exactly places fractional digits.
//
// PARAMETERS:
//   - f: The value to render.
//   - places: Number of fractional digits (0..100).
//
// RETURNS:
//   - "NaN", "Infinity" or "-Infinity" for non-finite input.
//   - Exponent form ("1e+21", "-1.5e+22") when |f| >= 1e21.
//   - The rounded decimal otherwise, e.g. FormatFixed(2.5, 2) == "2.50".
func FormatFixed(f float64, places int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if math.Abs(f) >= 1e21 {
		// Shortest round-trip form with a signed exponent, e.g. "1e+21".
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	if places < 0 {
		places = 0
	}

	// 'f' with -1 precision is the shortest round-trip form, which can hide
	// the side of a tie the stored value actually sits on. 1074 digits is
	// enough to print any float64 exactly.
	exact := strconv.FormatFloat(f, 'f', 1074, 64)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return strconv.FormatFloat(f, 'f', places, 64)
	}

	out := d.StringFixed(int32(places))
	if f < 0 && !strings.HasPrefix(out, "-") {
		// Small negatives keep their sign: -0.001 renders "-0.00".
		return "-" + out
	}
	return out
}

// ToFixed parses s leniently and renders it with places fractional digits.
func ToFixed(s string, places int) string {
	return FormatFixed(ParseFloat(s), places)
}

// =============================================================================
// ESCAPING
// =============================================================================

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML replaces the five XML special characters with entities.
func EscapeXML(s string) string {
	if s == "" {
		return ""
	}
	return xmlEscaper.Replace(s)
}
