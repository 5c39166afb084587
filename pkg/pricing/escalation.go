package pricing

import (
	"strings"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

// Approver status values the escalation engine produces.
const (
	StatusAuto           = "Auto"
	StatusReadyForReview = "Ready for Review"
	StatusYes            = "Yes"
	StatusNo             = "No"
)

// Thresholds holds the per-level escalation thresholds ("LP Overwrite
// Threshold"), expressed as percentages. Reference data, external to the
// engine.
type Thresholds struct {
	Level1 float64
	Level2 float64
}

// ByLevel returns the threshold for approver level 1 or 2.
func (t Thresholds) ByLevel(level int) float64 {
	if level == 2 {
		return t.Level2
	}
	return t.Level1
}

// PercentChange returns the percentage change from current to future. A zero
// current value yields 0 so an unpriced record never escalates on that axis.
func PercentChange(current, future float64) float64 {
	if current == 0 {
		return 0
	}
	return (future - current) / current * constants.PercentageMultiplier
}

// EscalationInput carries the record state one approver level is evaluated
// against.
type EscalationInput struct {
	// CurrentStatus is the observed approver-slot content, trimmed.
	CurrentStatus string
	// OverrideFlag is the raw LP Override Flag selection.
	OverrideFlag string
	// EmergencyPresent reports whether any pricing action carries an
	// emergency code.
	EmergencyPresent bool

	CurrentLocal float64
	FutureLocal  float64
	CurrentUSD   float64
	FutureUSD    float64

	// Threshold is the escalation threshold for this level, in percent.
	Threshold float64
}

// ExpectedApprover computes the expected approver status for level 1 or 2.
// A nil result means the slot is expected to be cleared. Transitions are
// evaluated in order, first match wins:
//
//  1. A slot already holding a human decision ("Yes"/"No"): level 1 retains
//     it, level 2 is cleared. The asymmetry is deliberate upstream behavior.
//  2. Override flag "No" or blank with an emergency action present: "Auto".
//  3. Local or USD percent change at or above the threshold: "Ready for
//     Review".
//  4. Otherwise: "Auto".
func ExpectedApprover(level int, in EscalationInput) *string {
	status := strings.TrimSpace(in.CurrentStatus)
	if strings.EqualFold(status, StatusYes) || strings.EqualFold(status, StatusNo) {
		if level == 2 {
			return nil
		}
		return fields.StringPtr(status)
	}
	if fields.FlagIsNoOrBlank(in.OverrideFlag) && in.EmergencyPresent {
		return fields.StringPtr(StatusAuto)
	}
	localPct := PercentChange(in.CurrentLocal, in.FutureLocal)
	usdPct := PercentChange(in.CurrentUSD, in.FutureUSD)
	if localPct >= in.Threshold || usdPct >= in.Threshold {
		return fields.StringPtr(StatusReadyForReview)
	}
	return fields.StringPtr(StatusAuto)
}

// ExpectedFinalApprover is the unconditional expectation for approver levels
// 3 and 4: administrative finalization, always "Auto".
func ExpectedFinalApprover() string {
	return StatusAuto
}

// StatusMatches compares an expected approver status with the observed slot
// content. Matching is case-insensitive; a nil expected status matches only
// a blank slot.
func StatusMatches(expected *string, observed string) bool {
	observed = strings.TrimSpace(observed)
	if expected == nil {
		return observed == ""
	}
	return strings.EqualFold(*expected, observed)
}

// EmergencyPresent reports whether any of the given pricing-action codes
// contains an emergency marker.
func EmergencyPresent(actions ...*string) bool {
	for _, a := range actions {
		if a != nil && strings.Contains(*a, "Emergency") {
			return true
		}
	}
	return false
}
