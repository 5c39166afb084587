package audit

import (
	"context"
	"testing"

	"github.com/spriced-qa/pricing-audit/internal/config"
	"github.com/spriced-qa/pricing-audit/pkg/datetime"
	"github.com/spriced-qa/pricing-audit/pkg/refdata"
	"github.com/spriced-qa/pricing-audit/pkg/report"
)

func testReference() *refdata.Snapshot {
	return &refdata.Snapshot{
		Factors: map[string]refdata.RegionFactor{
			"CHINA": {USDFactor: 1.0567, LocalFactor: 7.6},
			"EMEA":  {USDFactor: 1.1, LocalFactor: 1.2},
		},
		ExchangeRates: map[string]float64{
			"CHINA": 1.0,
			"EMEA":  0.9,
		},
		ThresholdLevel1: 10,
		ThresholdLevel2: 15,
		AllowFlags: map[string]string{
			"Standard Update": "Yes",
			"Blocked Code":    "No",
		},
	}
}

func newTestAuditor() *Auditor {
	return New(testReference(), datetime.MustParseDate("06/15/2026"), nil)
}

func findVerdict(t *testing.T, r *report.Report, check string) report.Verdict {
	t.Helper()
	for _, v := range r.Verdicts {
		if v.Check == check {
			return v
		}
	}
	t.Fatalf("no verdict for check %q in %+v", check, r.Verdicts)
	return report.Verdict{}
}

func TestRunCalculationChecks(t *testing.T) {
	plan := config.RegionPlan{
		Region:           "CHINA",
		ProductCode:      "CDBU-1001",
		CurrentBasePrice: "100.00",
		CalculatedUSD:    "105.67",
		CalculatedLocal:  "760.00",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	usd := findVerdict(t, result, "calculated USD price")
	if !usd.Passed {
		t.Errorf("calculated USD verdict failed: expected %s, actual %s", usd.Expected, usd.Actual)
	}
	local := findVerdict(t, result, "calculated local price")
	if !local.Passed {
		t.Errorf("calculated local verdict failed: expected %s, actual %s", local.Expected, local.Actual)
	}
	if !result.Passed() {
		t.Errorf("Run() reported failures: %+v", result.Verdicts)
	}
}

func TestRunSeedsBlankBasePrice(t *testing.T) {
	// No current base price: the USD path seeds 100, so calculated USD must
	// still come out at 105.67.
	plan := config.RegionPlan{
		Region:        "CHINA",
		ProductCode:   "CDBU-1002",
		CalculatedUSD: "105.67",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v := findVerdict(t, result, "calculated USD price"); !v.Passed {
		t.Errorf("seeded USD verdict failed: expected %s, actual %s", v.Expected, v.Actual)
	}
}

func TestRunDetectsWrongCalculatedPrice(t *testing.T) {
	plan := config.RegionPlan{
		Region:           "CHINA",
		ProductCode:      "CDBU-1003",
		CurrentBasePrice: "100.00",
		CalculatedUSD:    "106.99",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v := findVerdict(t, result, "calculated USD price"); v.Passed {
		t.Error("mismatched calculated USD should fail")
	}
	if result.Passed() {
		t.Error("Run() should report failures")
	}
}

func TestRunUnknownRegion(t *testing.T) {
	plan := config.RegionPlan{Region: "LATAM", ProductCode: "CDBU-1004"}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v := findVerdict(t, result, "region markup factor"); v.Passed {
		t.Error("unknown region should fail the reference check")
	}
}

func TestRunEscalationChecks(t *testing.T) {
	// Eligible override with an 11% local increase over a 10% level 1
	// threshold: approver 1 should have escalated, approver 2 (threshold
	// 15%) should be Auto.
	plan := config.RegionPlan{
		Region:             "EMEA",
		ProductCode:        "CDBU-2001",
		CurrentLocal:       "1,000.00",
		FutureLocal:        "1,110.00",
		FutureLocalEffDate: "06/01/2026",
		CalculatedLocal:    "1.00",
		LPOverrideFlag:     "Yes",
		Approver1:          "Ready for Review",
		Approver2:          "Auto",
		Approver3:          "Auto",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if v := findVerdict(t, result, "approver 1 status"); !v.Passed {
		t.Errorf("approver 1 verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
	if v := findVerdict(t, result, "approver 2 status"); !v.Passed {
		t.Errorf("approver 2 verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
	if v := findVerdict(t, result, "approver 3 status"); !v.Passed {
		t.Errorf("approver 3 verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
}

func TestRunSkipsEscalationWhenIneligible(t *testing.T) {
	plan := config.RegionPlan{
		Region:          "EMEA",
		ProductCode:     "CDBU-2002",
		CalculatedLocal: "0",
		LPOverrideFlag:  "Yes",
		FutureLocal:     "1,110.00",
		Approver1:       "Ready for Review",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, v := range result.Verdicts {
		if v.Check == "approver 1 status" {
			t.Error("ineligible record should produce no approver verdicts")
		}
	}
}

func TestRunMarkupConsistency(t *testing.T) {
	plan := config.RegionPlan{
		Region:         "CHINA",
		ProductCode:    "CDBU-3001",
		LPMarkupFactor: "1.0567",
		CMMarkupFactor: "1.0582",
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v := findVerdict(t, result, "markup factor consistency"); v.Passed {
		t.Error("factors 0.0015 apart should fail the consistency check")
	}
}

func TestRunStockingAndPVCChecks(t *testing.T) {
	plan := config.RegionPlan{
		Region:      "CHINA",
		ProductCode: "CDBU-4001",
		PVCAction:   "Standard Update",
		Stocking: &config.StockingPlan{
			SuggestedSegment: "D",
		},
		PVC: &config.PVCPlan{
			PublishCode: "PVC-NEW",
			PublishDate: "06/01/2026",
			Before:      config.PVCStatePlan{CurrentPVC: "PVC-OLD"},
			After:       config.PVCStatePlan{FuturePVC: "PVC-NEW", FutureDate: "06/01/2026"},
		},
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if v := findVerdict(t, result, "stocking segment"); !v.Passed {
		t.Errorf("stocking verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
	if v := findVerdict(t, result, "pvc propagation (updated correctly)"); !v.Passed {
		t.Errorf("pvc verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
}

func TestRunPVCBlocked(t *testing.T) {
	plan := config.RegionPlan{
		Region:      "CHINA",
		ProductCode: "CDBU-4002",
		PVCAction:   "Blocked Code",
		PVC: &config.PVCPlan{
			PublishCode: "PVC-NEW",
			Before:      config.PVCStatePlan{FuturePVC: "PVC-OLD"},
			After:       config.PVCStatePlan{FuturePVC: "PVC-OLD"},
		},
	}

	result, err := newTestAuditor().Run(context.Background(), []config.RegionPlan{plan})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v := findVerdict(t, result, "pvc propagation (blocked)"); !v.Passed {
		t.Errorf("blocked pvc verdict failed: expected %q, actual %q", v.Expected, v.Actual)
	}
}

func TestMarkupConsistency(t *testing.T) {
	pairs := []refdata.MarkupPair{
		{ListPricingCode: "LP-1", MarkupCode: "MU-1", LPFactor: 1.0567, CMFactor: 1.0567},
		{ListPricingCode: "LP-2", MarkupCode: "MU-2", LPFactor: 1.0567, CMFactor: 1.0582},
	}

	result := MarkupConsistency(pairs)
	if len(result.Verdicts) != 2 {
		t.Fatalf("MarkupConsistency() produced %d verdicts, want 2", len(result.Verdicts))
	}
	if !result.Verdicts[0].Passed {
		t.Error("matching factors should pass")
	}
	if result.Verdicts[1].Passed {
		t.Error("factors 0.0015 apart should fail")
	}
}

func TestRunEvaluatesRegionsIndependently(t *testing.T) {
	plans := []config.RegionPlan{
		{Region: "CHINA", ProductCode: "A", CurrentBasePrice: "100.00", CalculatedUSD: "105.67"},
		{Region: "EMEA", ProductCode: "B", CurrentBasePrice: "100.00", CalculatedUSD: "999.00"},
		{Region: "CHINA", ProductCode: "C", CurrentBasePrice: "200.00", CalculatedUSD: "211.34"},
	}

	result, err := newTestAuditor().Run(context.Background(), plans)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Failures() != 1 {
		t.Errorf("Failures() = %d, want exactly the EMEA mismatch", result.Failures())
	}
	// Verdicts must come back in plan order despite concurrent evaluation.
	if result.Verdicts[0].Region != "CHINA" || result.Verdicts[1].Region != "EMEA" || result.Verdicts[2].Region != "CHINA" {
		t.Errorf("verdict order not preserved: %+v", result.Verdicts)
	}
}
