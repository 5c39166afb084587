package config

import (
	"github.com/spriced-qa/pricing-audit/pkg/fields"
	"github.com/spriced-qa/pricing-audit/pkg/pricing"
)

// ToRecord parses the raw captured field values into a typed pricing record.
func (p RegionPlan) ToRecord() pricing.Record {
	return pricing.Record{
		Region:      p.Region,
		ProductCode: p.ProductCode,

		CurrentLocal:       fields.Decimal(p.CurrentLocal),
		FutureLocal:        fields.Decimal(p.FutureLocal),
		FutureLocalEffDate: fields.Date(p.FutureLocalEffDate),
		CalculatedLocal:    fields.Decimal(p.CalculatedLocal),

		CurrentUSD:       fields.Decimal(p.CurrentUSD),
		FutureUSD:        fields.Decimal(p.FutureUSD),
		FutureUSDEffDate: fields.Date(p.FutureUSDEffDate),
		CalculatedUSD:    fields.Decimal(p.CalculatedUSD),

		CurrentBasePrice: fields.Decimal(p.CurrentBasePrice),
		FutureBasePrice:  fields.Decimal(p.FutureBasePrice),
		PublishBasePrice: fields.Decimal(p.PublishBasePrice),

		LPOverrideFlag: p.LPOverrideFlag,

		ChinaAction: fields.Text(p.ChinaAction),
		DNAction:    fields.Text(p.DNAction),
		PVCAction:   fields.Text(p.PVCAction),

		Approver1: p.Approver1,
		Approver2: p.Approver2,
		Approver3: p.Approver3,
		Approver4: p.Approver4,
	}
}

// BaseQuotes parses the publish and current base-price quotes used by the
// list-price resolver.
func (p RegionPlan) BaseQuotes() (publish, current pricing.PriceQuote) {
	publish = pricing.PriceQuote{
		Price:         fields.Decimal(p.PublishBasePrice),
		EffectiveDate: fields.Date(p.PublishBasePriceEffDate),
	}
	current = pricing.PriceQuote{
		Price:         fields.Decimal(p.CurrentBasePrice),
		EffectiveDate: fields.Date(p.CurrentBasePriceEffDate),
	}
	return publish, current
}

// ToAction parses the staged PVC action.
func (p PVCPlan) ToAction() pricing.PVCAction {
	return pricing.PVCAction{
		PublishCode:   fields.Text(p.PublishCode),
		PublishDate:   fields.Date(p.PublishDate),
		FutureCode:    fields.Text(p.FutureCode),
		FutureDate:    fields.Date(p.FutureDate),
		EffectiveCode: fields.Text(p.EffectiveCode),
		EffectiveDate: fields.Date(p.EffectiveDate),
	}
}

// ToState parses one captured downstream PVC state.
func (p PVCStatePlan) ToState() pricing.PVCState {
	return pricing.PVCState{
		CurrentPVC: p.CurrentPVC,
		PublishPVC: p.PublishPVC,
		FuturePVC:  p.FuturePVC,
		FutureDate: fields.Date(p.FutureDate),
	}
}

// ToCandidate parses the stocking-segment inputs.
func (s StockingPlan) ToCandidate() pricing.StockingCandidate {
	return pricing.StockingCandidate{
		CertificationLevel: fields.Text(s.CertificationLevel),
		AnnualVolume:       fields.Text(s.AnnualVolume),
		SuggestedSegment:   s.SuggestedSegment,
	}
}
