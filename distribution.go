package waterfall

import (
	"math"

	"github.com/shopspring/decimal"
)

// Distribute allocates every distributable dollar of the deal-level series to
// a partner and a waterfall tier, following the partnership's distribution
// method. It is a pure function: identical inputs produce identical results.
//
// Pari passu deals split every period strictly by ownership share. Waterfall
// deals allocate positive cash through ordered cumulative bands:
//
//  1. return of capital, pro rata by share, until cumulative distributions
//     cover cumulative contributions;
//  2. preferred return, still pro rata, until the accrued LP entitlement
//     (annual compounding, accrued monthly on unreturned capital) is covered;
//  3. bounded IRR tiers, each capped at the distribution level where the
//     running deal IRR reaches the tier hurdle;
//  4. the uncapped final promote band.
//
// Within a promote band the GP side earns the band's promote rate off the
// top, and all partners split the remainder pro rata by share. Cash that runs
// out mid-band stops there; later capital calls re-open the capital band.
func Distribute(s *Series, structure *PartnershipStructure) (*DealResult, error) {
	if err := structure.Validate(); err != nil {
		return nil, err
	}
	if err := s.Timeline().Validate(); err != nil {
		return nil, err
	}

	e := newEngine(s, structure)
	for t := 0; t < s.Len(); t++ {
		if t > 0 {
			e.accruePref()
		}
		c := s.At(t)
		switch {
		case c.IsNegative():
			e.contribute(t, c)
		case c.IsPositive():
			e.distribute(t, c)
		}
	}
	return e.result(), nil
}

// partnerState is the per-partner accumulator threaded through the forward pass.
type partnerState struct {
	partner  Partner
	share    decimal.Decimal
	gpWeight decimal.Decimal // share of the GP-side promote, zero for LPs
	byTier   map[TierLabel]decimal.Decimal
	series   *Series
}

type engine struct {
	series    *Series
	structure *PartnershipStructure
	states    []*partnerState

	// deal-level accumulators
	flows      []DatedFlow     // deal flows to date, drives running-IRR tier caps
	capitalOut decimal.Decimal // unreturned capital across all partners
	prefOut    decimal.Decimal // accrued unpaid LP preferred return
	lpShare    decimal.Decimal // aggregate non-GP ownership
	growth     decimal.Decimal // monthly pref growth on outstanding balances
	tiers      []TierLabel
}

func newEngine(s *Series, structure *PartnershipStructure) *engine {
	e := &engine{series: s, structure: structure}

	gpTotal := decimal.Zero
	for _, p := range structure.Partners {
		if p.Kind == GeneralPartner {
			gpTotal = gpTotal.Add(p.share())
		}
	}
	for _, p := range structure.Partners {
		st := &partnerState{
			partner: p,
			share:   p.share(),
			byTier:  make(map[TierLabel]decimal.Decimal),
			series:  NewSeries(s.Timeline(), s.Currency()),
		}
		if p.Kind == GeneralPartner && gpTotal.IsPositive() {
			st.gpWeight = p.share().Div(gpTotal)
		} else {
			e.lpShare = e.lpShare.Add(p.share())
		}
		e.states = append(e.states, st)
	}

	if structure.Method == PariPassu {
		e.tiers = []TierLabel{TierProRata}
		return e
	}

	// annual pref compounding applied pro rata over monthly periods:
	// n months accrue exactly (1+pref)^(n/12).
	e.growth = decimal.NewFromFloat(math.Pow(1+float64(structure.Promote.Pref), 1.0/12) - 1)
	e.tiers = []TierLabel{TierReturnOfCapital, TierPreferred}
	for i := range structure.Promote.Tiers {
		e.tiers = append(e.tiers, TierBand(i+1))
	}
	e.tiers = append(e.tiers, TierFinal)
	return e
}

// accruePref compounds one month of preferred return on the outstanding
// LP-side balance (unreturned LP capital plus unpaid pref).
func (e *engine) accruePref() {
	if e.structure.Method == PariPassu {
		return
	}
	balance := e.capitalOut.Mul(e.lpShare).Add(e.prefOut)
	e.prefOut = e.prefOut.Add(balance.Mul(e.growth))
}

// contribute books a capital call: each partner funds its share, and the
// unreturned capital balance grows back by the full amount.
func (e *engine) contribute(t int, c Money) {
	for _, st := range e.states {
		st.series.Accrue(t, c.Scale(st.share))
	}
	e.capitalOut = e.capitalOut.Add(c.Decimal().Neg())
	e.flows = append(e.flows, DatedFlow{Date: e.series.Timeline().PeriodDate(t), Amount: c.AsFloat()})
}

// periodAlloc collects one partner's allocation within a single period.
type periodAlloc struct {
	total  decimal.Decimal
	byTier []TierLabel // labels touched, in order
}

func (e *engine) distribute(t int, c Money) {
	dt := e.series.Timeline().PeriodDate(t)
	remaining := c.Decimal()
	allocs := make([]periodAlloc, len(e.states))

	add := func(i int, label TierLabel, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		st := e.states[i]
		st.byTier[label] = st.byTier[label].Add(amount)
		if n := len(allocs[i].byTier); n == 0 || allocs[i].byTier[n-1] != label {
			allocs[i].byTier = append(allocs[i].byTier, label)
		}
		allocs[i].total = allocs[i].total.Add(amount)
	}

	if e.structure.Method == PariPassu {
		for i, st := range e.states {
			amount := remaining.Mul(st.share)
			add(i, TierProRata, amount)
			st.series.Accrue(t, Money{value: amount, cur: c.Currency()})
		}
		e.flows = append(e.flows, DatedFlow{Date: dt, Amount: c.AsFloat()})
		return
	}

	// bands 1 and 2: return of capital then preferred return, both pro rata.
	band := e.capitalOut.Add(e.prefOut)
	if pay := decimal.Min(remaining, band); pay.IsPositive() {
		rc := decimal.Min(pay, e.capitalOut)
		pp := pay.Sub(rc)
		for i, st := range e.states {
			add(i, TierReturnOfCapital, rc.Mul(st.share))
			add(i, TierPreferred, pp.Mul(st.share))
		}
		e.capitalOut = e.capitalOut.Sub(rc)
		e.prefOut = e.prefOut.Sub(pp)
		remaining = remaining.Sub(pay)
	}

	// bounded IRR tiers: cap each band at the split where the running deal
	// IRR reaches the tier hurdle.
	paid := c.Decimal().Sub(remaining)
	for k, tier := range e.structure.Promote.Tiers {
		if !remaining.IsPositive() {
			break
		}
		past := e.flows
		if paid.IsPositive() {
			past = append(append([]DatedFlow{}, e.flows...), DatedFlow{Date: dt, Amount: paid.InexactFloat64()})
		}
		x := solveTierSplit(past, dt, tier.Hurdle, remaining.InexactFloat64())
		if x <= 0 {
			continue
		}
		xd := decimal.Min(decimal.NewFromFloat(x), remaining)
		e.allocPromote(add, xd, tier.Promote, TierBand(k+1))
		remaining = remaining.Sub(xd)
		paid = paid.Add(xd)
	}

	// final band: uncapped promote for everything above the highest hurdle.
	if remaining.IsPositive() {
		e.allocPromote(add, remaining, e.structure.Promote.Final, TierFinal)
		remaining = decimal.Zero
	}

	e.settle(t, c, allocs)
	e.flows = append(e.flows, DatedFlow{Date: dt, Amount: c.AsFloat()})
}

// allocPromote splits band cash: the GP side earns the promote rate off the
// top, every partner takes its pro-rata share of the remainder.
func (e *engine) allocPromote(add func(int, TierLabel, decimal.Decimal), x decimal.Decimal, promote Rate, label TierLabel) {
	p := decimal.NewFromFloat(float64(promote))
	rest := decimal.NewFromInt(1).Sub(p)
	carry := x.Mul(p)
	for i, st := range e.states {
		amount := x.Mul(rest).Mul(st.share)
		if st.gpWeight.IsPositive() {
			amount = amount.Add(carry.Mul(st.gpWeight))
		}
		add(i, label, amount)
	}
}

// settle rounds each partner's period total to the cent and pushes the
// residual cent onto the last allocated partner, so that period payouts sum
// exactly to the period's distributable cash.
func (e *engine) settle(t int, c Money, allocs []periodAlloc) {
	target := c.Decimal().Round(2)
	sum := decimal.Zero
	last := -1
	for i := range allocs {
		if allocs[i].total.IsPositive() {
			last = i
		}
	}
	for i, st := range e.states {
		amount := allocs[i].total.Round(2)
		if i == last {
			amount = target.Sub(sum)
			// the residual stays attributed to the partner's last band
			if n := len(allocs[i].byTier); n > 0 {
				label := allocs[i].byTier[n-1]
				st.byTier[label] = st.byTier[label].Add(amount.Sub(allocs[i].total))
			}
		}
		sum = sum.Add(amount)
		st.series.Accrue(t, Money{value: amount, cur: c.Currency()})
	}
}

func (e *engine) result() *DealResult {
	d := &DealResult{
		Method:             e.structure.Method,
		Tiers:              e.tiers,
		TotalInvestment:    e.series.TotalContributions(),
		TotalDistributions: e.series.TotalDistributions(),
		Summary:            e.structure.Summary(),
		Archetype:          Stabilized,
	}
	if r, err := XIRR(e.series.Flows()); err == nil {
		d.IRR = &r
	}
	d.EquityMultiple, _ = e.series.EquityMultiple()

	for _, st := range e.states {
		pr := &PartnerResult{
			Partner:         st.partner,
			Ownership:       st.partner.Share,
			TotalInvestment: st.series.TotalContributions(),
			FromWaterfall:   st.series.TotalDistributions(),
			FromFees:        M(0, e.series.Currency()),
			ByTier:          make(map[TierLabel]Money, len(st.byTier)),
			ByFee:           map[string]Money{},
			ByFeeCategory:   map[string]Money{},
			CashFlows:       st.series.Clone(),
			WaterfallFlows:  st.series,
			FeeFlows:        NewSeries(e.series.Timeline(), e.series.Currency()),
		}
		for label, v := range st.byTier {
			pr.ByTier[label] = Money{value: v, cur: e.series.Currency()}
		}
		if r, err := XIRR(st.series.Flows()); err == nil {
			pr.IRR = &r
		}
		pr.EquityMultiple, pr.hasEquityMultiple = st.series.EquityMultiple()
		d.Partners = append(d.Partners, pr)
	}
	return d
}
