package model

import "strconv"

// ParseFloat coerces a loosely-typed tabular field. The boolean
// distinguishes "no data" from a measured zero, so aggregation never
// confuses the two.
func ParseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt is ParseFloat for integer fields. Values written as floats by
// the source ("8000.0") are accepted and truncated.
func ParseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, ok := ParseFloat(s)
	if !ok {
		return 0, false
	}
	return int(f), true
}
