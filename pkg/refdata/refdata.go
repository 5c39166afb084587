// Package refdata resolves the reference data the pricing engine consumes:
// per-region markup factors, exchange rates, escalation thresholds, and the
// PVC allow-flag table. A static snapshot serves config-driven runs and
// tests; a Postgres provider loads the same snapshot from the pricing
// database.
package refdata

import "strings"

// RegionFactor carries a region's markup factors for the two price paths.
type RegionFactor struct {
	USDFactor   float64
	LocalFactor float64
}

// Provider is the read-only reference-data surface the audit consumes.
type Provider interface {
	RegionFactor(region string) (RegionFactor, bool)
	ExchangeRate(region string) (float64, bool)
	Thresholds() (level1, level2 float64)
	AllowFlag(code string) (flag string, ok bool)
}

// Snapshot is an immutable in-memory Provider. Regions are matched
// case-insensitively; a run builds one snapshot up front and shares it
// across concurrent per-region evaluations.
type Snapshot struct {
	Factors         map[string]RegionFactor
	ExchangeRates   map[string]float64
	ThresholdLevel1 float64
	ThresholdLevel2 float64
	AllowFlags      map[string]string
}

// RegionFactor returns the markup factors for a region.
func (s *Snapshot) RegionFactor(region string) (RegionFactor, bool) {
	f, ok := s.Factors[normalizeRegion(region)]
	return f, ok
}

// ExchangeRate returns the exchange rate for a region's local currency.
func (s *Snapshot) ExchangeRate(region string) (float64, bool) {
	r, ok := s.ExchangeRates[normalizeRegion(region)]
	return r, ok
}

// Thresholds returns the level 1 and level 2 escalation thresholds.
func (s *Snapshot) Thresholds() (float64, float64) {
	return s.ThresholdLevel1, s.ThresholdLevel2
}

// AllowFlag returns the PVC allow flag for a pricing-action code. Codes are
// matched case-insensitively; config loaders do not preserve key casing.
func (s *Snapshot) AllowFlag(code string) (string, bool) {
	if flag, ok := s.AllowFlags[code]; ok {
		return flag, true
	}
	for k, flag := range s.AllowFlags {
		if strings.EqualFold(k, code) {
			return flag, true
		}
	}
	return "", false
}

func normalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}
