package pricing

import (
	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

// CalculatedUSD computes the expected USD list price from a base price and
// the region's USD markup factor.
func CalculatedUSD(basePrice, usdFactor float64) float64 {
	return basePrice * usdFactor
}

// CalculatedLocal computes the expected local-currency list price from a base
// price, the region's local markup factor, and the exchange rate.
func CalculatedLocal(basePrice, localFactor, exchangeRate float64) float64 {
	return basePrice * localFactor * exchangeRate
}

// EffectiveBasePrice selects the base price feeding the local-currency
// calculation: future, then publish, then current, first non-nil wins. All
// nil yields 0.
func EffectiveBasePrice(future, publish, current *float64) float64 {
	switch {
	case future != nil:
		return *future
	case publish != nil:
		return *publish
	case current != nil:
		return *current
	default:
		return 0
	}
}

// SeededBasePrice selects the base price feeding the USD calculation. The
// upstream recompute seeds blank records with a fixed base so a record with
// no current base price still produces a non-zero USD price; a nil or zero
// current base is therefore replaced by DefaultSeedBasePrice.
func SeededBasePrice(current *float64) float64 {
	if v := fields.Float(current); v != 0 {
		return v
	}
	return constants.DefaultSeedBasePrice
}

// ResolveFutureUSD computes the expected future USD price after a manual
// local-price override. When the future local price diverges from the
// calculated local price the USD price scales by the same ratio; when the
// calculation produced nothing usable the existing future USD value is
// retained untouched.
func ResolveFutureUSD(futureLocal, calcLocal, calcUSD float64, existing *float64) *float64 {
	if calcUSD == 0 || calcLocal == 0 {
		return existing
	}
	if !PricesEqual(futureLocal, calcLocal) {
		scaled := futureLocal / calcLocal * calcUSD
		return &scaled
	}
	return existing
}
