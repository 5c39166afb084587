// Package report aggregates audit verdicts and renders them for humans or
// for machine consumption.
package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Verdict is the outcome of one rule check on one region's record: what was
// expected, what was observed, and whether they agreed.
type Verdict struct {
	Region   string
	Check    string
	Passed   bool
	Expected string
	Actual   string
}

// Report collects the verdicts of one audit run.
type Report struct {
	Verdicts []Verdict
}

// Add appends a verdict.
func (r *Report) Add(v Verdict) {
	r.Verdicts = append(r.Verdicts, v)
}

// Merge appends all verdicts from another report.
func (r *Report) Merge(other *Report) {
	r.Verdicts = append(r.Verdicts, other.Verdicts...)
}

// Failures returns the number of failed verdicts.
func (r *Report) Failures() int {
	failures := 0
	for _, v := range r.Verdicts {
		if !v.Passed {
			failures++
		}
	}
	return failures
}

// Passed reports whether every verdict in the run passed.
func (r *Report) Passed() bool {
	return r.Failures() == 0
}

// Money renders a monetary amount with thousands separators, matching how
// the audited UI displays currency fields.
func Money(value float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", value)
}
