package pricing

import (
	"strings"
	"time"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/datetime"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

// PVCAction holds the staged PVC codes and dates on the upstream record.
type PVCAction struct {
	PublishCode   *string
	PublishDate   *time.Time
	FutureCode    *string
	FutureDate    *time.Time
	EffectiveCode *string
	EffectiveDate *time.Time
}

// SelectedPVC is the code/date pair chosen to propagate downstream.
type SelectedPVC struct {
	Code string
	Date *time.Time
}

// Select resolves the PVC value that should reach the downstream system:
// publish wins over future wins over effective, first non-empty code.
func (a PVCAction) Select() SelectedPVC {
	if code := strings.TrimSpace(fields.String(a.PublishCode)); code != "" {
		return SelectedPVC{Code: code, Date: a.PublishDate}
	}
	if code := strings.TrimSpace(fields.String(a.FutureCode)); code != "" {
		return SelectedPVC{Code: code, Date: a.FutureDate}
	}
	return SelectedPVC{
		Code: strings.TrimSpace(fields.String(a.EffectiveCode)),
		Date: a.EffectiveDate,
	}
}

// PVCState is the downstream system's PVC view, captured before and after
// the propagation run.
type PVCState struct {
	CurrentPVC string
	PublishPVC string
	FuturePVC  string
	FutureDate *time.Time
}

// PVCOutcome classifies what the propagation run was expected to do.
type PVCOutcome int

const (
	// PVCBlocked means the allow flag stopped propagation entirely.
	PVCBlocked PVCOutcome = iota
	// PVCNotUpdatedAsExpected means the selected value already matched the
	// downstream current or publish PVC, so no mutation was expected.
	PVCNotUpdatedAsExpected
	// PVCUpdatedCorrectly means the selected value was expected to land in
	// the downstream future PVC.
	PVCUpdatedCorrectly
)

func (o PVCOutcome) String() string {
	switch o {
	case PVCBlocked:
		return "blocked"
	case PVCNotUpdatedAsExpected:
		return "not updated, as expected"
	default:
		return "updated correctly"
	}
}

// AllowFlagLookup resolves a pricing-action code to its PVC allow flag.
// A missed lookup is treated as not allowed.
type AllowFlagLookup interface {
	AllowFlag(code string) (flag string, ok bool)
}

// ResolveActionCode normalizes a raw pricing-action code: trimmed, with
// blank falling back to the "None" placeholder.
func ResolveActionCode(raw *string) string {
	code := strings.TrimSpace(fields.String(raw))
	if code == "" {
		return constants.NoPricingAction
	}
	return code
}

// PVCEvaluation is the result of one propagation check: the outcome class,
// whether the observed downstream state matched it, and the expected/actual
// pair for diagnostics.
type PVCEvaluation struct {
	Outcome  PVCOutcome
	OK       bool
	Expected string
	Actual   string
}

// EvaluatePVCPropagation checks one PVC propagation run against the
// downstream state captured before and after it. The allow flag gates
// everything: a code whose flag does not start with "Yes" blocks propagation
// and the downstream future PVC must stay untouched. An allowed value that
// already matches the downstream current or publish PVC is idempotent, so
// the future PVC is verified against its pre-run value rather than against
// the selected code. Otherwise the selected code and date must have landed
// in the downstream future fields.
func EvaluatePVCPropagation(action PVCAction, allow AllowFlagLookup, actionCode *string, before, after PVCState) PVCEvaluation {
	code := ResolveActionCode(actionCode)
	flag, ok := allow.AllowFlag(code)
	if !ok || !strings.HasPrefix(flag, "Yes") {
		return PVCEvaluation{
			Outcome:  PVCBlocked,
			OK:       after.FuturePVC == before.FuturePVC,
			Expected: before.FuturePVC,
			Actual:   after.FuturePVC,
		}
	}

	sel := action.Select()
	if sel.Code == before.CurrentPVC || sel.Code == before.PublishPVC {
		return PVCEvaluation{
			Outcome:  PVCNotUpdatedAsExpected,
			OK:       after.FuturePVC == before.FuturePVC,
			Expected: before.FuturePVC,
			Actual:   after.FuturePVC,
		}
	}

	return PVCEvaluation{
		Outcome:  PVCUpdatedCorrectly,
		OK:       after.FuturePVC == sel.Code && sameDate(after.FutureDate, sel.Date),
		Expected: sel.Code,
		Actual:   after.FuturePVC,
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return datetime.SameDay(*a, *b)
}
