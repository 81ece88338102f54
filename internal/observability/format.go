package observability

import (
	"strconv"
	"strings"
)

// FormatFloat renders v with the shortest exact representation, keeping at
// least one decimal place (93.3, 90.0, 0.0).
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatNumber renders a summed count without a trailing ".0" when it is
// integral (10, 2.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
