package pricing

import (
	"strings"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

// actionUnset reports whether a pricing-action code is nil, blank, or the
// "None" placeholder.
func actionUnset(a *string) bool {
	code := strings.TrimSpace(fields.String(a))
	return code == "" || strings.EqualFold(code, constants.NoPricingAction)
}

// EligibleForApproval reports whether a record enters the approval workflow.
// A record with no usable calculated local price is never eligible; beyond
// that it qualifies either through an override with a future price set, or
// through an emergency pricing action with a dated future local price.
func EligibleForApproval(r Record) bool {
	if fields.Float(r.CalculatedLocal) == 0 {
		return false
	}
	futureLocalDated := r.FutureLocal != nil && r.FutureLocalEffDate != nil
	overridden := (r.FutureUSD != nil || futureLocalDated) && fields.FlagIsYes(r.LPOverrideFlag)
	emergency := EmergencyPresent(r.ChinaAction, r.DNAction, r.PVCAction) && futureLocalDated
	return overridden || emergency
}

// EligibleForDailyPricingUpdate reports whether a record is picked up by the
// automatic daily recompute: no pending future USD effective date, no
// pricing action of any channel, and not in the China region (which runs its
// own workflow).
func EligibleForDailyPricingUpdate(r Record) bool {
	if r.FutureUSDEffDate != nil {
		return false
	}
	if !actionUnset(r.ChinaAction) || !actionUnset(r.DNAction) || !actionUnset(r.PVCAction) {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(r.Region), "CHINA")
}

// EligibleForLPUpdate reports whether a manual list-price override should
// propagate: the override flag is set and both the overridden local price
// and a calculated USD price exist to scale from.
func EligibleForLPUpdate(r Record) bool {
	return fields.FlagIsYes(r.LPOverrideFlag) && r.FutureLocal != nil && r.CalculatedUSD != nil
}
