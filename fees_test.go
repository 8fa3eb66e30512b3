package waterfall

import (
	"errors"
	"testing"
	"time"
)

// feeSeries is the fee benchmark profile: twelve months of $100K
// distributable cash after a three-period lag, no capital events.
func feeSeries() *Series {
	tl := NewTimeline(NewDate(2024, time.January, 1), 15)
	s := NewSeries(tl, "USD")
	for i := 3; i < 15; i++ {
		s.Set(i, USD(100_000))
	}
	return s
}

func feeStructure(t *testing.T) *PartnershipStructure {
	t.Helper()
	structure, err := NewPariPassu(NewGPLP("GP", 0.20, "LP")...)
	if err != nil {
		t.Fatalf("NewPariPassu() error = %v", err)
	}
	return structure
}

func TestDistributeWithFees_DualEntryReconciliation(t *testing.T) {
	fees := []FeeSchedule{
		{Name: "Development Fee", Category: "Developer", Payee: "GP", Amount: USD(500_000), Timing: FeeUpfront},
		{Name: "Asset Management Fee", Category: "Asset Management", Payee: "GP", Amount: USD(120_000), Timing: FeeUniform},
		{Name: "Disposition Fee", Category: "Transaction", Payee: "LP", Amount: USD(50_000), Timing: FeeCompletion},
	}

	result, err := DistributeWithFees(feeSeries(), feeStructure(t), fees)
	if err != nil {
		t.Fatalf("DistributeWithFees() error = %v", err)
	}

	gp, lp := result.Partner("GP"), result.Partner("LP")
	if !gp.FromFees.Equal(USD(620_000)) {
		t.Errorf("GP fee distributions = %s, want $620,000.00", gp.FromFees)
	}
	if !lp.FromFees.Equal(USD(50_000)) {
		t.Errorf("LP fee distributions = %s, want $50,000.00", lp.FromFees)
	}
	for _, p := range result.Partners {
		if got, want := p.TotalDistributions(), p.FromWaterfall.Add(p.FromFees); !got.Equal(want) {
			t.Errorf("%s total = %s, want waterfall+fees = %s", p.Partner.Name, got, want)
		}
	}
	if !result.TotalDistributions.Equal(USD(1_200_000)) {
		t.Errorf("deal distributions = %s, want gross $1,200,000.00", result.TotalDistributions)
	}
	if !result.UnpaidFees.IsZero() {
		t.Errorf("unpaid fees = %s, want zero", result.UnpaidFees)
	}
	if err := result.Reconcile(); err != nil {
		t.Error(err)
	}

	t.Run("fee breakdowns", func(t *testing.T) {
		if got := gp.ByFee["Development Fee"]; !got.Equal(USD(500_000)) {
			t.Errorf("ByFee[Development Fee] = %s, want $500,000.00", got)
		}
		if got := gp.ByFeeCategory["Asset Management"]; !got.Equal(USD(120_000)) {
			t.Errorf("ByFeeCategory[Asset Management] = %s, want $120,000.00", got)
		}
		if got := lp.ByFee["Disposition Fee"]; !got.Equal(USD(50_000)) {
			t.Errorf("ByFee[Disposition Fee] = %s, want $50,000.00", got)
		}
	})
}

func TestDistributeWithFees_ShortfallDefers(t *testing.T) {
	// The $500K up-front fee far exceeds the $100K first cash period: the
	// balance rolls forward and drains the next periods with cash, in
	// schedule order ahead of later fees.
	fees := []FeeSchedule{
		{Name: "Development Fee", Category: "Developer", Payee: "GP", Amount: USD(500_000), Timing: FeeUpfront},
		{Name: "Asset Management Fee", Category: "Asset Management", Payee: "GP", Amount: USD(120_000), Timing: FeeUniform},
	}

	result, err := DistributeWithFees(feeSeries(), feeStructure(t), fees)
	if err != nil {
		t.Fatalf("DistributeWithFees() error = %v", err)
	}

	gp := result.Partner("GP")
	// periods 3..7 are fully consumed by the deferred development fee
	for i := 3; i <= 7; i++ {
		if got := gp.FeeFlows.At(i); !got.Equal(USD(100_000)) {
			t.Errorf("fee payment at period %d = %s, want $100,000.00", i, got)
		}
	}
	// period 8 catches up the asset management arrears: 9 periods at $8K
	if got := gp.FeeFlows.At(8); !got.Equal(USD(72_000)) {
		t.Errorf("fee payment at period 8 = %s, want $72,000.00", got)
	}
	if got := gp.FeeFlows.At(9); !got.Equal(USD(8_000)) {
		t.Errorf("fee payment at period 9 = %s, want $8,000.00", got)
	}
}

func TestDistributeWithFees_UnpaidBalance(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 6)
	s := NewSeries(tl, "USD")
	s.Set(2, USD(80_000))

	fees := []FeeSchedule{
		{Name: "Development Fee", Category: "Developer", Payee: "GP", Amount: USD(500_000), Timing: FeeUpfront},
	}
	result, err := DistributeWithFees(s, feeStructure(t), fees)
	if err != nil {
		t.Fatalf("DistributeWithFees() error = %v", err)
	}
	gp := result.Partner("GP")
	if !gp.FromFees.Equal(USD(80_000)) {
		t.Errorf("GP fee distributions = %s, want the $80,000.00 the project could cover", gp.FromFees)
	}
	if !result.UnpaidFees.Equal(USD(420_000)) {
		t.Errorf("unpaid fees = %s, want $420,000.00", result.UnpaidFees)
	}
	if err := result.Reconcile(); err != nil {
		t.Error(err)
	}
}

func TestDistributeWithFees_OnWaterfall(t *testing.T) {
	// Fees reduce the pool the waterfall sees, but the deal-level totals stay
	// gross of fees.
	structure, err := NewWaterfall(NewCarry(0.08, 0.20), NewGPLP("GP", 0.20, "LP")...)
	if err != nil {
		t.Fatalf("NewWaterfall() error = %v", err)
	}
	fees := []FeeSchedule{
		{Name: "Asset Management Fee", Category: "Asset Management", Payee: "GP", Amount: USD(600_000), Timing: FeeCompletion},
	}
	result, err := DistributeWithFees(singleFlow(50e6, 75e6, 60), structure, fees)
	if err != nil {
		t.Fatalf("DistributeWithFees() error = %v", err)
	}

	if !result.TotalDistributions.Equal(USD(75e6)) {
		t.Errorf("deal distributions = %s, want gross $75,000,000.00", result.TotalDistributions)
	}
	gp := result.Partner("GP")
	if !gp.FromFees.Equal(USD(600_000)) {
		t.Errorf("GP fee distributions = %s, want $600,000.00", gp.FromFees)
	}
	// the waterfall now runs on $74.4M, so the GP promote shrinks
	noFees, err := Distribute(singleFlow(50e6, 75e6, 60), structure)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if gp.FromWaterfall.GreaterThanOrEqual(noFees.Partner("GP").FromWaterfall) {
		t.Errorf("GP waterfall take %s should shrink below the fee-free %s", gp.FromWaterfall, noFees.Partner("GP").FromWaterfall)
	}
	if err := result.Reconcile(); err != nil {
		t.Error(err)
	}
}

func TestFeeSchedule_Validate(t *testing.T) {
	structure := feeStructure(t)
	tl := NewTimeline(NewDate(2024, time.January, 1), 12)

	tests := []struct {
		name string
		fee  FeeSchedule
		ok   bool
	}{
		{"valid upfront", FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(1000), Timing: FeeUpfront}, true},
		{"valid split", FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(1000), Timing: FeeSplit, UpfrontShare: 0.3}, true},
		{"missing name", FeeSchedule{Payee: "GP", Amount: USD(1000), Timing: FeeUpfront}, false},
		{"unknown payee", FeeSchedule{Name: "Dev", Payee: "Broker", Amount: USD(1000), Timing: FeeUpfront}, false},
		{"unknown timing", FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(1000), Timing: "quarterly"}, false},
		{"negative amount", FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(-1), Timing: FeeUpfront}, false},
		{"split share out of range", FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(1000), Timing: FeeSplit, UpfrontShare: 1.5}, false},
		{"custom wrong length", FeeSchedule{Name: "Dev", Payee: "GP", Timing: FeeCustom, Custom: []Money{USD(10)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fee.Validate(structure, tl)
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("Validate() error = %v, want ErrConfiguration", err)
				}
			}
		})
	}
}

func TestFeeSchedule_Timing(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 12)

	t.Run("uniform sums exactly", func(t *testing.T) {
		fee := FeeSchedule{Name: "AM", Payee: "GP", Amount: USD(100_000), Timing: FeeUniform}
		s := fee.schedule(tl)
		if !s.Total().Equal(USD(100_000)) {
			t.Errorf("schedule total = %s, want $100,000.00", s.Total())
		}
		if !s.At(0).Equal(USD(8_333.33)) {
			t.Errorf("uniform period = %s, want $8,333.33", s.At(0))
		}
		if !s.At(11).Equal(USD(8_333.37)) {
			t.Errorf("last period remainder = %s, want $8,333.37", s.At(11))
		}
	})

	t.Run("split", func(t *testing.T) {
		fee := FeeSchedule{Name: "Dev", Payee: "GP", Amount: USD(100_000), Timing: FeeSplit, UpfrontShare: 0.3}
		s := fee.schedule(tl)
		if !s.At(0).Equal(USD(30_000)) {
			t.Errorf("upfront part = %s, want $30,000.00", s.At(0))
		}
		if !s.At(11).Equal(USD(70_000)) {
			t.Errorf("completion part = %s, want $70,000.00", s.At(11))
		}
	})

	t.Run("custom", func(t *testing.T) {
		custom := make([]Money, 12)
		custom[4] = USD(25_000)
		custom[9] = USD(10_000)
		fee := FeeSchedule{Name: "Milestone", Payee: "GP", Timing: FeeCustom, Custom: custom}
		if !fee.Total().Equal(USD(35_000)) {
			t.Errorf("Total() = %s, want $35,000.00", fee.Total())
		}
		s := fee.schedule(tl)
		if !s.At(4).Equal(USD(25_000)) || !s.At(9).Equal(USD(10_000)) {
			t.Errorf("custom schedule misplaced: %s at 4, %s at 9", s.At(4), s.At(9))
		}
	})
}
