package qskema

import (
	"math/big"
	"strings"
)

// CoerceString returns the raw value unchanged; absent stays undefined.
func CoerceString(raw string, present bool) (string, bool) {
	return raw, present
}

// CoerceNumber parses the longest decimal-literal prefix of raw, the way
// ECMAScript parseFloat does ("12abc" -> 12, " 3.5" -> 3.5, "Infinity" -> +Inf).
// Absent input and input without such a prefix are undefined.
func CoerceNumber(raw string, present bool) (float64, bool) {
	if !present {
		return 0, false
	}
	return parseFloatPrefix(raw)
}

// CoerceBoolean reports whether raw is "true" in any letter case. Absent input
// is false, whether or not the field is optional.
func CoerceBoolean(raw string, present bool) bool {
	if !present {
		return false
	}
	return strings.ToLower(raw) == "true"
}

// CoerceBigInt parses raw as an exact integer with ECMAScript BigInt(string)
// rules: surrounding whitespace is ignored, the empty string is 0, decimal
// digits may carry a sign, and 0x/0o/0b prefixes select the base. Anything else
// is undefined.
func CoerceBigInt(raw string, present bool) (*big.Int, bool) {
	if !present {
		return nil, false
	}
	return parseBigInt(raw)
}

// Coerce applies the coercion selected by ins.Kind and returns nil for
// undefined.
func Coerce(ins ParseInstruction, raw string, present bool) any {
	switch ins.Kind {
	case KindString:
		if s, ok := CoerceString(raw, present); ok {
			return s
		}
	case KindNumber:
		if f, ok := CoerceNumber(raw, present); ok {
			return f
		}
	case KindBoolean:
		return CoerceBoolean(raw, present)
	case KindBigInt:
		if n, ok := CoerceBigInt(raw, present); ok {
			return n
		}
	}
	return nil
}

func parseBigInt(raw string) (*big.Int, bool) {
	s := strings.TrimFunc(raw, isJSSpace)
	if s == "" {
		return new(big.Int), true
	}
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
		}
	}
	if base == 10 {
		digits := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
		if len(s)-len(digits) > 1 || !allDigits(digits, base) {
			return nil, false
		}
	} else if !allDigits(s, base) {
		// signs are only allowed on decimal literals
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	return n, true
}

func allDigits(s string, base int) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return false
		}
		if d >= base {
			return false
		}
	}
	return true
}

// isJSSpace matches the ECMAScript WhiteSpace and LineTerminator code points.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
