// Package core provides the item lists and the proportional split arithmetic.
//
// This file contains the two numeric primitives every calculation goes
// through: lenient parsing of user-entered amounts and fixed two-digit
// formatting of results.
package core

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount reads the longest decimal prefix of s, the way a browser's
// parseFloat does, and never fails.
//
// Leading whitespace is skipped and an optional sign, fraction and exponent
// are accepted. Anything that does not start with a number, and anything that
// overflows to infinity, counts as 0.
//
// Examples:
//
//	ParseAmount("12.5")    -> 12.5
//	ParseAmount(" -3")     -> -3
//	ParseAmount("100abc")  -> 100
//	ParseAmount("1,50")    -> 1 (comma is not a decimal separator here)
//	ParseAmount("invalid") -> 0
//	ParseAmount("")        -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimLeftFunc(s, isStrWhiteSpace)
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// isStrWhiteSpace matches the characters parseFloat skips: ECMAScript white
// space (including U+FEFF and every Zs separator) and line terminators.
// U+0085 is not one of them, unlike unicode.IsSpace.
func isStrWhiteSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// numericPrefix returns the length of the decimal literal at the start of s,
// or 0 when s does not start with one.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// FormatFixed2 formats x with exactly two fraction digits.
//
// Rounding works on the exact binary value of x and sends ties away from
// zero, so 0.125 gives "0.13" while 1.005 (stored as 1.00499...) gives
// "1.00". A negative input keeps its sign even if it rounds to zero
// ("-0.00"); negative zero prints as "0.00". NaN and infinities print as
// "0.00".
func FormatFixed2(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.00"
	}
	neg := x < 0

	v := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	v.Mul(v, big.NewFloat(100))
	v.Add(v, big.NewFloat(0.5))
	n, _ := v.Int(nil)

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg {
		return "-" + out
	}
	return out
}
