// utils/parse_float.go
package utils

import (
	"strconv"
	"strings"
)

// ParseFloat converts a string to a float64, returning 0 if there's an error
func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// ParseAmount extracts a numeric value from an opaque commission amount
// string ("$1,500", "1500.00", "USD 1500"). Unparseable input counts as 0
// so read-time totals never fail a listing.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	value, err := ParseFloat(b.String())
	if err != nil {
		return 0
	}
	return value
}
