package pricing

import (
	"time"

	"github.com/spriced-qa/pricing-audit/pkg/datetime"
)

// PriceQuote pairs a nullable price with its nullable effective date, as the
// publish-price and current-price widgets expose them.
type PriceQuote struct {
	Price         *float64
	EffectiveDate *time.Time
}

// ApplicableOn reports whether the quote participates in list-price
// resolution on the given reference date: both parts must be present and the
// effective date must not be in the future.
func (q PriceQuote) ApplicableOn(ref time.Time) bool {
	if q.Price == nil || q.EffectiveDate == nil {
		return false
	}
	return datetime.OnOrBefore(*q.EffectiveDate, ref)
}

// BaseChange identifies which quote supplied the resolved list price.
type BaseChange int

const (
	BaseUnchanged BaseChange = iota
	BasePublishChanged
	BaseCurrentChanged
)

func (c BaseChange) String() string {
	switch c {
	case BasePublishChanged:
		return "publish price changed"
	case BaseCurrentChanged:
		return "current price changed"
	default:
		return "unchanged"
	}
}

// ResolveListPrice picks the effective list price on ref: an applicable
// publish quote wins over an applicable current quote; with neither
// applicable the resolved price is zero. Publish precedence holds even when
// the current quote's effective date is more recent.
func ResolveListPrice(publish, current PriceQuote, ref time.Time) float64 {
	switch DescribeBaseChange(publish, current, ref) {
	case BasePublishChanged:
		return *publish.Price
	case BaseCurrentChanged:
		return *current.Price
	default:
		return 0
	}
}

// DescribeBaseChange classifies which quote, if any, drives the list price
// on ref.
func DescribeBaseChange(publish, current PriceQuote, ref time.Time) BaseChange {
	if publish.ApplicableOn(ref) {
		return BasePublishChanged
	}
	if current.ApplicableOn(ref) {
		return BaseCurrentChanged
	}
	return BaseUnchanged
}
