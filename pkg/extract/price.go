package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePattern matches a dollar-sign-prefixed decimal amount, e.g. "$12.50".
var pricePattern = regexp.MustCompile(`\$\d+\.\d+`)

// ParsePrice scans text for the first dollar-prefixed decimal amount and
// returns it with the currency symbol stripped. Returns nil when no
// amount is found. Only the first match counts: the price node may also
// carry a struck-through original price, and the current price comes
// first in the markup.
func ParsePrice(text string) *float64 {
	match := pricePattern.FindString(text)
	if match == "" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimPrefix(match, "$"), 64)
	if err != nil {
		return nil
	}

	return &v
}
