package pricing

import (
	"testing"
	"time"

	"github.com/spriced-qa/pricing-audit/pkg/datetime"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

func effDate() *time.Time {
	return fields.TimePtr(datetime.MustParseDate("06/01/2026"))
}

func TestEligibleForApproval(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{
			name: "zero calculated local disqualifies regardless of overrides",
			r: Record{
				CalculatedLocal:    fields.FloatPtr(0),
				FutureUSD:          fields.FloatPtr(105.67),
				LPOverrideFlag:     "Yes",
				ChinaAction:        fields.StringPtr("Emergency Price Update"),
				FutureLocal:        fields.FloatPtr(760),
				FutureLocalEffDate: effDate(),
			},
			want: false,
		},
		{
			name: "override with future usd",
			r: Record{
				CalculatedLocal: fields.FloatPtr(760),
				FutureUSD:       fields.FloatPtr(105.67),
				LPOverrideFlag:  "Yes",
			},
			want: true,
		},
		{
			name: "override with dated future local",
			r: Record{
				CalculatedLocal:    fields.FloatPtr(760),
				FutureLocal:        fields.FloatPtr(800),
				FutureLocalEffDate: effDate(),
				LPOverrideFlag:     "Yes",
			},
			want: true,
		},
		{
			name: "override flag no blocks condition one",
			r: Record{
				CalculatedLocal: fields.FloatPtr(760),
				FutureUSD:       fields.FloatPtr(105.67),
				LPOverrideFlag:  "No",
			},
			want: false,
		},
		{
			name: "override with undated future local only",
			r: Record{
				CalculatedLocal: fields.FloatPtr(760),
				FutureLocal:     fields.FloatPtr(800),
				LPOverrideFlag:  "Yes",
			},
			want: false,
		},
		{
			name: "emergency action with dated future local",
			r: Record{
				CalculatedLocal:    fields.FloatPtr(760),
				DNAction:           fields.StringPtr("Emergency Correction"),
				FutureLocal:        fields.FloatPtr(800),
				FutureLocalEffDate: effDate(),
			},
			want: true,
		},
		{
			name: "emergency action without future local",
			r: Record{
				CalculatedLocal: fields.FloatPtr(760),
				PVCAction:       fields.StringPtr("Emergency Correction"),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EligibleForApproval(tt.r); got != tt.want {
				t.Errorf("EligibleForApproval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibleForDailyPricingUpdate(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{
			name: "clean non-china record",
			r:    Record{Region: "EMEA"},
			want: true,
		},
		{
			name: "none placeholder counts as unset",
			r:    Record{Region: "EMEA", ChinaAction: fields.StringPtr("None"), DNAction: fields.StringPtr(" ")},
			want: true,
		},
		{
			name: "pending future usd date disqualifies",
			r:    Record{Region: "EMEA", FutureUSDEffDate: effDate()},
			want: false,
		},
		{
			name: "any pricing action disqualifies",
			r:    Record{Region: "EMEA", PVCAction: fields.StringPtr("Standard Update")},
			want: false,
		},
		{
			name: "china region excluded case-insensitive",
			r:    Record{Region: "China"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EligibleForDailyPricingUpdate(tt.r); got != tt.want {
				t.Errorf("EligibleForDailyPricingUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibleForLPUpdate(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want bool
	}{
		{
			name: "override with local price and calculated usd",
			r: Record{
				LPOverrideFlag: "Yes",
				FutureLocal:    fields.FloatPtr(800),
				CalculatedUSD:  fields.FloatPtr(105.67),
			},
			want: true,
		},
		{
			name: "override flag unset",
			r: Record{
				FutureLocal:   fields.FloatPtr(800),
				CalculatedUSD: fields.FloatPtr(105.67),
			},
			want: false,
		},
		{
			name: "missing calculated usd",
			r: Record{
				LPOverrideFlag: "Yes",
				FutureLocal:    fields.FloatPtr(800),
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EligibleForLPUpdate(tt.r); got != tt.want {
				t.Errorf("EligibleForLPUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}
