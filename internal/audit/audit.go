// Package audit orchestrates one audit run: it evaluates every configured
// region's captured record against the pricing rule engine and aggregates
// the verdicts. Regions are independent, so they evaluate concurrently
// against a shared read-only reference snapshot.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/spriced-qa/pricing-audit/internal/config"
	"github.com/spriced-qa/pricing-audit/pkg/fields"
	"github.com/spriced-qa/pricing-audit/pkg/pricing"
	"github.com/spriced-qa/pricing-audit/pkg/refdata"
	"github.com/spriced-qa/pricing-audit/pkg/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Auditor evaluates captured pricing records against the rule engine.
type Auditor struct {
	logger        *zap.Logger
	reference     refdata.Provider
	referenceDate time.Time
}

// New constructs an Auditor. The reference date anchors every date-gated
// rule in the run.
func New(reference refdata.Provider, referenceDate time.Time, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		logger:        logger,
		reference:     reference,
		referenceDate: referenceDate,
	}
}

// Run evaluates all region plans concurrently and merges their verdicts in
// plan order.
func (a *Auditor) Run(ctx context.Context, plans []config.RegionPlan) (*report.Report, error) {
	results := make([]*report.Report, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = a.evaluateRegion(plan)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit run: %w", err)
	}

	merged := &report.Report{}
	for _, r := range results {
		merged.Merge(r)
	}
	a.logger.Info("audit run complete",
		zap.String("op", "audit.Auditor.Run"),
		zap.Int("regions", len(plans)),
		zap.Int("checks", len(merged.Verdicts)),
		zap.Int("failures", merged.Failures()),
	)
	return merged, nil
}

func (a *Auditor) evaluateRegion(plan config.RegionPlan) *report.Report {
	r := &report.Report{}
	record := plan.ToRecord()

	factor, haveFactor := a.reference.RegionFactor(plan.Region)
	rate, haveRate := a.reference.ExchangeRate(plan.Region)
	if !haveFactor {
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    "region markup factor",
			Passed:   false,
			Expected: "factor configured for region",
			Actual:   "not found",
		})
	}

	var calcUSD, calcLocal float64
	if haveFactor {
		calcUSD = pricing.CalculatedUSD(pricing.SeededBasePrice(record.CurrentBasePrice), factor.USDFactor)
		if record.CalculatedUSD != nil {
			r.Add(priceVerdict(plan.Region, "calculated USD price", calcUSD, *record.CalculatedUSD))
		}

		if haveRate {
			calcLocal = pricing.CalculatedLocal(a.localBase(plan, record), factor.LocalFactor, rate)
			if record.CalculatedLocal != nil {
				r.Add(priceVerdict(plan.Region, "calculated local price", calcLocal, *record.CalculatedLocal))
			}
		}

		if pricing.EligibleForLPUpdate(record) && record.FutureUSD != nil {
			expected := pricing.ResolveFutureUSD(
				fields.Float(record.FutureLocal), calcLocal, calcUSD, record.FutureUSD)
			if expected != nil {
				r.Add(priceVerdict(plan.Region, "future USD after override", *expected, *record.FutureUSD))
			}
		}
	}

	a.evaluateApprovers(plan, record, r)

	if plan.LPMarkupFactor != "" && plan.CMMarkupFactor != "" {
		lp := fields.Float(fields.Decimal(plan.LPMarkupFactor))
		cm := fields.Float(fields.Decimal(plan.CMMarkupFactor))
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    "markup factor consistency",
			Passed:   pricing.FactorsEqual(lp, cm),
			Expected: plan.CMMarkupFactor,
			Actual:   plan.LPMarkupFactor,
		})
	}

	if plan.Stocking != nil {
		candidate := plan.Stocking.ToCandidate()
		expected := pricing.ExpectedSegment(candidate.CertificationLevel, candidate.AnnualVolume)
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    "stocking segment",
			Passed:   expected == candidate.SuggestedSegment,
			Expected: expected,
			Actual:   candidate.SuggestedSegment,
		})
	}

	if plan.PVC != nil {
		eval := pricing.EvaluatePVCPropagation(
			plan.PVC.ToAction(), a.reference, record.PVCAction,
			plan.PVC.Before.ToState(), plan.PVC.After.ToState())
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    fmt.Sprintf("pvc propagation (%s)", eval.Outcome),
			Passed:   eval.OK,
			Expected: eval.Expected,
			Actual:   eval.Actual,
		})
	}

	a.logger.Debug("region evaluated",
		zap.String("op", "audit.Auditor.evaluateRegion"),
		zap.String("region", plan.Region),
		zap.String("productCode", plan.ProductCode),
		zap.Bool("eligibleForApproval", pricing.EligibleForApproval(record)),
		zap.Bool("eligibleForDailyUpdate", pricing.EligibleForDailyPricingUpdate(record)),
		zap.Int("checks", len(r.Verdicts)),
	)
	return r
}

// localBase selects the base price feeding the local calculation. When
// effective dates were captured for the base quotes the date-gated resolver
// decides; otherwise the plain future/publish/current coalesce applies.
func (a *Auditor) localBase(plan config.RegionPlan, record pricing.Record) float64 {
	publish, current := plan.BaseQuotes()
	if pricing.DescribeBaseChange(publish, current, a.referenceDate) != pricing.BaseUnchanged {
		return pricing.ResolveListPrice(publish, current, a.referenceDate)
	}
	return pricing.EffectiveBasePrice(record.FutureBasePrice, record.PublishBasePrice, record.CurrentBasePrice)
}

func (a *Auditor) evaluateApprovers(plan config.RegionPlan, record pricing.Record, r *report.Report) {
	if !pricing.EligibleForApproval(record) {
		return
	}

	level1, level2 := a.reference.Thresholds()
	thresholds := pricing.Thresholds{Level1: level1, Level2: level2}
	emergency := pricing.EmergencyPresent(record.ChinaAction, record.DNAction, record.PVCAction)

	observed := []string{record.Approver1, record.Approver2}
	for level := 1; level <= 2; level++ {
		expected := pricing.ExpectedApprover(level, pricing.EscalationInput{
			CurrentStatus:    observed[level-1],
			OverrideFlag:     record.LPOverrideFlag,
			EmergencyPresent: emergency,
			CurrentLocal:     fields.Float(record.CurrentLocal),
			FutureLocal:      fields.Float(record.FutureLocal),
			CurrentUSD:       fields.Float(record.CurrentUSD),
			FutureUSD:        fields.Float(record.FutureUSD),
			Threshold:        thresholds.ByLevel(level),
		})
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    fmt.Sprintf("approver %d status", level),
			Passed:   pricing.StatusMatches(expected, observed[level-1]),
			Expected: fields.String(expected),
			Actual:   observed[level-1],
		})
	}

	finals := []struct {
		level int
		slot  string
	}{{3, record.Approver3}, {4, record.Approver4}}
	for _, f := range finals {
		level, slot := f.level, f.slot
		if slot == "" {
			continue
		}
		r.Add(report.Verdict{
			Region:   plan.Region,
			Check:    fmt.Sprintf("approver %d status", level),
			Passed:   pricing.StatusMatches(fields.StringPtr(pricing.ExpectedFinalApprover()), slot),
			Expected: pricing.ExpectedFinalApprover(),
			Actual:   slot,
		})
	}
}

// MarkupConsistency checks that each list-pricing record agrees with its
// owning markup record on the markup factor.
func MarkupConsistency(pairs []refdata.MarkupPair) *report.Report {
	r := &report.Report{}
	for _, pair := range pairs {
		r.Add(report.Verdict{
			Region:   pair.ListPricingCode,
			Check:    fmt.Sprintf("markup factor consistency (%s)", pair.MarkupCode),
			Passed:   pricing.FactorsEqual(pair.LPFactor, pair.CMFactor),
			Expected: fmt.Sprintf("%g", pair.CMFactor),
			Actual:   fmt.Sprintf("%g", pair.LPFactor),
		})
	}
	return r
}

func priceVerdict(region, check string, expected, actual float64) report.Verdict {
	return report.Verdict{
		Region:   region,
		Check:    check,
		Passed:   pricing.PricesEqual(expected, actual),
		Expected: report.Money(expected),
		Actual:   report.Money(actual),
	}
}
