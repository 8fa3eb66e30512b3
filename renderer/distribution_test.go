package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/mklein/waterfall"
)

func benchmarkResult(t *testing.T) *waterfall.DealResult {
	t.Helper()
	structure, err := waterfall.NewWaterfall(
		waterfall.NewCarry(0.08, 0.20),
		waterfall.NewGPLP("Sponsor", 0.20, "Pension Fund")...,
	)
	if err != nil {
		t.Fatalf("NewWaterfall() error = %v", err)
	}
	tl := waterfall.NewTimeline(waterfall.NewDate(2024, time.January, 1), 61)
	s := waterfall.NewSeries(tl, "USD")
	s.Set(0, waterfall.USD(-50e6))
	s.Set(60, waterfall.USD(75e6))

	fees := []waterfall.FeeSchedule{
		{Name: "Asset Management Fee", Category: "Asset Management", Payee: "Sponsor", Amount: waterfall.USD(600_000), Timing: waterfall.FeeUniform},
	}
	result, err := waterfall.DistributeWithFees(s, structure, fees)
	if err != nil {
		t.Fatalf("DistributeWithFees() error = %v", err)
	}
	return result
}

func TestDistributionMarkdown(t *testing.T) {
	md := DistributionMarkdown(benchmarkResult(t))

	for _, want := range []string{
		"# Distribution Report (Waterfall)",
		"## Deal Summary",
		"## Partners",
		"## Tier Breakdown",
		"Sponsor",
		"Pension Fund",
		string(waterfall.TierReturnOfCapital),
		string(waterfall.TierPreferred),
		string(waterfall.TierFinal),
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report is missing %q:\n%s", want, md)
		}
	}
}

func TestDistributionMarkdown_MissingIRR(t *testing.T) {
	// distributions only: the IRR is not computable and must render as N/A
	structure, err := waterfall.NewPariPassu(waterfall.NewGPLP("GP", 0.5, "LP")...)
	if err != nil {
		t.Fatalf("NewPariPassu() error = %v", err)
	}
	tl := waterfall.NewTimeline(waterfall.NewDate(2024, time.January, 1), 3)
	s := waterfall.NewSeries(tl, "USD")
	s.Set(1, waterfall.USD(100))

	result, err := waterfall.Distribute(s, structure)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	md := DistributionMarkdown(result)
	if !strings.Contains(md, "| IRR | N/A |") {
		t.Errorf("report should mark the IRR as N/A:\n%s", md)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(benchmarkResult(t))
	for _, want := range []string{"# Deal Summary (Waterfall, Stabilized)", "| GP | 1 |", "| LP | 1 |", "Equity multiple 1.5000x"} {
		if !strings.Contains(md, want) {
			t.Errorf("summary is missing %q:\n%s", want, md)
		}
	}
}

func TestFeeLedgerMarkdown(t *testing.T) {
	md := FeeLedgerMarkdown(benchmarkResult(t))
	for _, want := range []string{"Asset Management Fee", "Sponsor"} {
		if !strings.Contains(md, want) {
			t.Errorf("fee ledger is missing %q:\n%s", want, md)
		}
	}
}
