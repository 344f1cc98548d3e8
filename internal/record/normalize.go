package record

import (
	"math"
	"strconv"
	"strings"
)

// Normalize trims and lowercases a value for case-insensitive identity matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TerminalKey builds the case-insensitive composite identity of a terminal record.
func TerminalKey(r Record) string {
	return Normalize(r.String("agencia")) + "__" +
		Normalize(r.String("marca")) + "__" +
		Normalize(r.String("terminal"))
}

// TerminalKeyFields are the fields composing a terminal's identity.
var TerminalKeyFields = []string{"agencia", "marca", "terminal"}

// CoerceNumber converts v the way JavaScript's `Number(v) || 0` does.
// Anything that does not parse as a finite number becomes 0.
func CoerceNumber(v any) float64 {
	var n float64
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		n = parseNumber(val)
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	lower := strings.ToLower(s)
	// ParseFloat accepts spellings JavaScript rejects.
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(lower, "_") {
		return 0
	}
	if base := radixOf(lower); base != 0 {
		n, err := strconv.ParseUint(s[2:], base, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}
	// Signed radix literals are NaN in JavaScript; ParseFloat would accept "-0x1p4".
	if unsigned := strings.TrimLeft(lower, "+-"); unsigned != lower && radixOf(unsigned) != 0 {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// radixOf returns the base of a 0x, 0o or 0b prefixed literal, or 0.
func radixOf(lower string) int {
	switch {
	case strings.HasPrefix(lower, "0x"):
		return 16
	case strings.HasPrefix(lower, "0o"):
		return 8
	case strings.HasPrefix(lower, "0b"):
		return 2
	}
	return 0
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
