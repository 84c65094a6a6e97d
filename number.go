package qskema

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// parseFloatPrefix implements ECMAScript parseFloat: leading whitespace is
// skipped and the longest prefix forming a decimal literal is parsed.
func parseFloatPrefix(raw string) (float64, bool) {
	s := strings.TrimLeftFunc(raw, isJSSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	intDigits := countDigits(s[i:])
	end := i + intDigits
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = countDigits(s[end+1:])
		end += 1 + fracDigits
	}
	if intDigits+fracDigits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := countDigits(s[j:]); k > 0 {
			end = j + k
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// out of range literals become ±Inf (or 0), as in ECMAScript
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// FormatNumber renders f the way ECMAScript Number#toString does, so encoded
// numbers read the same as in a browser URL: 1e21 -> "1e+21", 1e-7 -> "1e-7",
// 0.000001 -> "0.000001", -0 -> "0".
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f < 0:
		return "-" + FormatNumber(-f)
	}

	// shortest round-tripping digits: d.ddddde±x
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expStr)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}
	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	abs := n - 1
	if abs < 0 {
		abs = -abs
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(abs)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(abs)
}
