package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reToken = regexp.MustCompile(`^[A-Za-z0-9_-]{10,100}$`)
	reField = regexp.MustCompile(`^(customer|collab)(Tax|LaborFee|SellingProfit)$`)
)

// Weight bounds in grams.
const (
	MinWeight = 0.1
	MaxWeight = 10000
)

// Weight parses a weight input in grams. Accepts [0.1, 10000].
func Weight(s string) (float64, bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(w) {
		return 0, false
	}
	if w < MinWeight || w > MaxWeight {
		return 0, false
	}
	return w, true
}

// Percent parses a percentage input and returns it as a fraction in [0,1].
func Percent(s string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(p) {
		return 0, false
	}
	if p < 0 || p > 100 {
		return 0, false
	}
	return p / 100, true
}

// Token validates an invite token's shape before hitting the database.
func Token(s string) bool {
	return reToken.MatchString(s)
}

// PricingField validates an override field name carried in button payloads.
func PricingField(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reField.MatchString(s)
}

// ViewerClass validates the customer|collab argument of config commands.
func ViewerClass(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, s == "customer" || s == "collab"
}
