// Package fields parses raw field values captured from the priced-data UI
// into typed, nullable Go values. Every helper accepts the blank/garbage
// strings the UI produces for unset widgets and maps them to nil rather than
// an error, so a record with holes still evaluates to a defined outcome.
package fields

import (
	"strconv"
	"strings"
	"time"

	"github.com/spriced-qa/pricing-audit/pkg/datetime"
)

// Reader is the capability the acquisition layer exposes: the raw string
// content of a labeled field, already scraped from whatever widget holds it.
// An empty string with ok=false means the field could not be located at all;
// an empty string with ok=true means the field exists but is blank. Both
// parse to nil.
type Reader interface {
	Field(label string) (value string, ok bool)
}

// Decimal parses a currency or factor field into a nullable float. Thousands
// separators are stripped and surrounding whitespace trimmed. Blank or
// non-numeric content yields nil.
func Decimal(raw string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Date parses a calendar-date field into a nullable date-only time.Time.
func Date(raw string) *time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	t, err := datetime.ParseDate(cleaned)
	if err != nil {
		return nil
	}
	return &t
}

// Text trims a free-text field, returning nil for blank content.
func Text(raw string) *string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// FlagIsYes reports whether a Yes/No lookup field is set to Yes. The UI
// renders the selection with arbitrary casing depending on the widget state.
func FlagIsYes(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "Yes")
}

// FlagIsNoOrBlank reports whether a Yes/No lookup field is "No" or unset.
func FlagIsNoOrBlank(raw string) bool {
	cleaned := strings.TrimSpace(raw)
	return cleaned == "" || strings.EqualFold(cleaned, "No")
}

// Float returns the value of a nullable float, or 0 when nil. Mirrors the
// `parseFloat(v) || 0` coercion the UI layer applies before arithmetic.
func Float(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// String returns the value of a nullable string, or "" when nil.
func String(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// FloatPtr returns a pointer to v; convenient for building records.
func FloatPtr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
