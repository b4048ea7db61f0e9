package inventory

import "strings"

// NormalizePrice strips formatting from a feed price, keeping only the
// digits before the first decimal point: "5'990.00 руб." becomes "5990".
// A price with no digits before the point normalizes to "".
func NormalizePrice(price string) string {
	whole, _, _ := strings.Cut(price, ".")

	var digits strings.Builder
	for _, r := range whole {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
