// Package pricing implements the pricing-rule evaluation engine: pure
// decision functions over field values captured from the priced-data UI.
// Every function tolerates nil inputs and returns a defined outcome; missing
// data is business state here, not an error.
package pricing

import "time"

// Record aggregates one part/region's list-pricing field values as captured
// from the UI. All monetary and date fields are nullable because any widget
// may be blank or unresolved when the snapshot is taken. A Record is read at
// audit start, compared against engine-computed expectations, and re-read
// after a save or remote recompute to verify propagation.
type Record struct {
	Region      string
	ProductCode string

	CurrentLocal       *float64
	FutureLocal        *float64
	FutureLocalEffDate *time.Time
	CalculatedLocal    *float64

	CurrentUSD       *float64
	FutureUSD        *float64
	FutureUSDEffDate *time.Time
	CalculatedUSD    *float64

	CurrentBasePrice *float64
	FutureBasePrice  *float64
	PublishBasePrice *float64

	// LPOverrideFlag is the raw lookup selection: "Yes", "No", or blank.
	LPOverrideFlag string

	// Pricing-action codes per channel; nil when unset.
	ChinaAction *string
	DNAction    *string
	PVCAction   *string

	// Observed approver-slot contents, trimmed; blank when the slot is empty.
	Approver1 string
	Approver2 string
	Approver3 string
	Approver4 string
}

// StockingCandidate is a part evaluated by the stocking-segment rule.
type StockingCandidate struct {
	CertificationLevel *string
	AnnualVolume       *string
	SuggestedSegment   string
}
