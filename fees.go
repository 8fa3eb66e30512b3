package waterfall

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeTiming is the cash-flow timing pattern of a fee schedule.
type FeeTiming string

const (
	FeeUpfront    FeeTiming = "upfront"    // paid entirely in the first period
	FeeCompletion FeeTiming = "completion" // paid entirely in the last period
	FeeSplit      FeeTiming = "split"      // a fixed fraction up front, the rest at completion
	FeeUniform    FeeTiming = "uniform"    // spread evenly across the timeline
	FeeCustom     FeeTiming = "custom"     // a caller-provided per-period draw schedule
)

// ParseFeeTiming parses a fee timing pattern from a string.
func ParseFeeTiming(s string) (FeeTiming, error) {
	switch FeeTiming(s) {
	case FeeUpfront, FeeCompletion, FeeSplit, FeeUniform, FeeCustom:
		return FeeTiming(s), nil
	default:
		return "", fmt.Errorf("%w: unknown fee timing %q", ErrConfiguration, s)
	}
}

// FeeSchedule is a deal-level fee paid to one partner out of the same cash
// pool that feeds the waterfall.
type FeeSchedule struct {
	Name     string    `json:"name"`
	Category string    `json:"category"` // e.g. "Developer", "Asset Management"
	Payee    string    `json:"payee"`    // partner name
	Amount   Money     `json:"amount"`
	Timing   FeeTiming `json:"timing"`

	// UpfrontShare is the fraction paid up front for the split pattern.
	UpfrontShare Rate `json:"upfrontShare,omitempty"`
	// Custom is the per-period draw schedule for the custom pattern.
	Custom []Money `json:"custom,omitempty"`
}

// Validate checks the schedule against the partnership and timeline.
func (f *FeeSchedule) Validate(structure *PartnershipStructure, t Timeline) error {
	if f.Name == "" {
		return fmt.Errorf("%w: fee name is missing", ErrConfiguration)
	}
	if structure.Partner(f.Payee) == nil {
		return fmt.Errorf("%w: fee %q payee %q is not a partner", ErrConfiguration, f.Name, f.Payee)
	}
	if _, err := ParseFeeTiming(string(f.Timing)); err != nil {
		return err
	}
	switch f.Timing {
	case FeeCustom:
		if len(f.Custom) != t.Months {
			return fmt.Errorf("%w: fee %q custom schedule has %d periods, timeline has %d", ErrConfiguration, f.Name, len(f.Custom), t.Months)
		}
	case FeeSplit:
		if !f.UpfrontShare.isFraction() {
			return fmt.Errorf("%w: fee %q upfront share %v out of range", ErrConfiguration, f.Name, f.UpfrontShare)
		}
		fallthrough
	default:
		if !f.Amount.IsPositive() {
			return fmt.Errorf("%w: fee %q amount must be positive", ErrConfiguration, f.Name)
		}
	}
	return nil
}

// Total returns the full fee amount.
func (f *FeeSchedule) Total() Money {
	if f.Timing != FeeCustom {
		return f.Amount
	}
	total := Money{}
	for _, m := range f.Custom {
		total = total.Add(m)
	}
	return total
}

// schedule expands the fee into its per-period demand over the timeline.
// Per-period amounts are cent amounts and sum exactly to the fee total.
func (f *FeeSchedule) schedule(t Timeline) *Series {
	s := NewSeries(t, f.Amount.Currency())
	last := t.Months - 1
	switch f.Timing {
	case FeeUpfront:
		s.Accrue(0, f.Amount)
	case FeeCompletion:
		s.Accrue(last, f.Amount)
	case FeeSplit:
		up := f.Amount.Scale(decimal.NewFromFloat(float64(f.UpfrontShare))).Round()
		s.Accrue(0, up)
		s.Accrue(last, f.Amount.Sub(up))
	case FeeUniform:
		per := f.Amount.Scale(decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(t.Months)))).Round()
		paid := Money{}
		for i := 0; i < last; i++ {
			s.Accrue(i, per)
			paid = paid.Add(per)
		}
		s.Accrue(last, f.Amount.Sub(paid))
	case FeeCustom:
		for i, m := range f.Custom {
			s.Accrue(i, m)
		}
	}
	return s
}

// DistributeWithFees layers fee schedules on top of the waterfall: scheduled
// fees are paid out of each period's positive cash first (in schedule order),
// the net pool runs through Distribute, and the per-partner ledgers are
// merged so that gross project distributions reconcile to the cent against
// waterfall plus fee distributions.
//
// A fee demand exceeding the period's available cash is deferred to the next
// period with cash; whatever the project never covers is reported as
// DealResult.UnpaidFees.
func DistributeWithFees(s *Series, structure *PartnershipStructure, fees []FeeSchedule) (*DealResult, error) {
	if err := structure.Validate(); err != nil {
		return nil, err
	}
	for i := range fees {
		if err := fees[i].Validate(structure, s.Timeline()); err != nil {
			return nil, err
		}
	}

	demands := make([]*Series, len(fees))
	owed := make([]decimal.Decimal, len(fees))
	paid := make([]*Series, len(fees))
	for i := range fees {
		demands[i] = fees[i].schedule(s.Timeline())
		paid[i] = NewSeries(s.Timeline(), s.Currency())
	}

	// forward pass: pay due fees from positive period cash, defer shortfalls.
	net := s.Clone()
	for t := 0; t < s.Len(); t++ {
		available := decimal.Zero
		if v := s.At(t); v.IsPositive() {
			available = v.Decimal()
		}
		for i := range fees {
			owed[i] = owed[i].Add(demands[i].At(t).Decimal())
			if !owed[i].IsPositive() || !available.IsPositive() {
				continue
			}
			pay := decimal.Min(owed[i], available)
			owed[i] = owed[i].Sub(pay)
			available = available.Sub(pay)
			m := Money{value: pay, cur: s.Currency()}
			paid[i].Accrue(t, m)
			net.Accrue(t, m.Neg())
		}
	}

	result, err := Distribute(net, structure)
	if err != nil {
		return nil, err
	}

	// merge the fee ledgers into the waterfall result.
	for i := range fees {
		pr := result.Partner(fees[i].Payee)
		total := paid[i].TotalDistributions()
		pr.FromFees = pr.FromFees.Add(total)
		pr.ByFee[fees[i].Name] = pr.ByFee[fees[i].Name].Add(total)
		if fees[i].Category != "" {
			pr.ByFeeCategory[fees[i].Category] = pr.ByFeeCategory[fees[i].Category].Add(total)
		}
		var perr error
		pr.FeeFlows, perr = pr.FeeFlows.Plus(paid[i])
		if perr != nil {
			return nil, perr
		}
	}
	unpaid := decimal.Zero
	for i := range fees {
		unpaid = unpaid.Add(owed[i])
	}
	result.UnpaidFees = Money{value: unpaid, cur: s.Currency()}

	// partner metrics are recomputed on the full cash-flow picture.
	for _, pr := range result.Partners {
		pr.CashFlows, err = pr.WaterfallFlows.Plus(pr.FeeFlows)
		if err != nil {
			return nil, err
		}
		pr.IRR = nil
		if r, xerr := XIRR(pr.CashFlows.Flows()); xerr == nil {
			pr.IRR = &r
		}
		pr.EquityMultiple, pr.hasEquityMultiple = pr.CashFlows.EquityMultiple()
	}

	// deal totals are gross of fees: the project distributed this cash.
	result.TotalDistributions = s.TotalDistributions()
	if r, xerr := XIRR(s.Flows()); xerr == nil {
		result.IRR = &r
	} else {
		result.IRR = nil
	}
	result.EquityMultiple, _ = s.EquityMultiple()

	return result, nil
}
