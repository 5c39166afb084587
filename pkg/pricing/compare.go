package pricing

import (
	"math"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
)

// WithinTolerance reports whether a and b differ by strictly less than tol.
func WithinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// PricesEqual compares two monetary amounts under the price tolerance.
// Captured field values go through string formatting and back, so exact
// float equality is never meaningful here.
func PricesEqual(a, b float64) bool {
	return WithinTolerance(a, b, constants.PriceTolerance)
}

// FactorsEqual compares two markup factors under the factor tolerance.
func FactorsEqual(a, b float64) bool {
	return WithinTolerance(a, b, constants.FactorTolerance)
}

// Round rounds a value to two decimal places, matching how the UI renders
// monetary fields.
func Round(value float64) float64 {
	return math.Round(value*constants.PercentageMultiplier) / constants.PercentageMultiplier
}
