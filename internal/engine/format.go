package engine

import (
	"math"
	"strconv"
)

// roundDecimals matches the readout precision; anything finer is float noise.
const roundDecimals = 10

// round trims the result to roundDecimals places the same way a fixed-point
// formatter would, then normalises negative zero.
func round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', roundDecimals, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		return 0
	}
	return r
}

// formatNumber renders v without trailing zeros. Values whose plain form does
// not fit in maxLen fall back to the longest exponent form that does.
func formatNumber(v float64, maxLen int) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if len(s) <= maxLen {
		return s
	}

	for prec := maxLen; prec > 0; prec-- {
		s = strconv.FormatFloat(v, 'g', prec, 64)
		if len(s) <= maxLen {
			return s
		}
	}
	return s
}

// parseDisplay reads the numeral currently on the display. Partial numerals
// such as "5." and "0." parse as their integral value.
func parseDisplay(display string) float64 {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
