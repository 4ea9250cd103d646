package navseries

import "math"

// CAGR returns the compound annual growth rate between two values as a
// decimal (0.10 for 10%). ok is false when the rate is undefined: a
// non-positive period or non-positive endpoint values.
func CAGR(begin, end, years float64) (float64, bool) {
	if years <= 0 || begin <= 0 || end <= 0 {
		return 0, false
	}
	return math.Pow(end/begin, 1/years) - 1, true
}

// SimpleReturnPct returns the simple percentage change from begin to end.
func SimpleReturnPct(begin, end float64) float64 {
	return (end - begin) / begin * 100
}
