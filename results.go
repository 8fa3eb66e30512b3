package waterfall

import "fmt"

// TierLabel identifies the waterfall band that produced a distributed dollar.
type TierLabel string

const (
	TierReturnOfCapital TierLabel = "return-of-capital"
	TierPreferred       TierLabel = "preferred-return"
	TierFinal           TierLabel = "promote-final"
	TierProRata         TierLabel = "pro-rata" // the single band of pari passu deals
)

// TierBand returns the label of the i-th bounded IRR tier (1-based).
func TierBand(i int) TierLabel { return TierLabel(fmt.Sprintf("tier-%d", i)) }

// Archetype is a data-driven classification of the deal.
type Archetype string

const (
	// Development deals have construction draws in their ledger.
	Development Archetype = "Development"
	// Stabilized deals only have an acquisition-style contribution profile.
	Stabilized Archetype = "Stabilized"
)

// PartnerResult is the computed outcome for one partner.
type PartnerResult struct {
	Partner   Partner
	Ownership Rate

	TotalInvestment   Money // magnitude of capital contributed
	FromWaterfall     Money // distributions produced by the waterfall engine
	FromFees          Money // distributions produced by fee schedules
	ByTier            map[TierLabel]Money
	ByFee             map[string]Money // fee name -> amount
	ByFeeCategory     map[string]Money // fee category -> amount
	CashFlows         *Series          // signed partner-level flows (waterfall + fees)
	WaterfallFlows    *Series          // signed partner-level flows, waterfall only
	FeeFlows          *Series          // fee payments only
	IRR               *Rate            // nil when not computable
	EquityMultiple    float64
	hasEquityMultiple bool
}

// TotalDistributions is the partner's full cash received, waterfall plus fees.
func (r *PartnerResult) TotalDistributions() Money {
	return r.FromWaterfall.Add(r.FromFees)
}

// HasEquityMultiple reports whether the partner invested any capital.
func (r *PartnerResult) HasEquityMultiple() bool { return r.hasEquityMultiple }

// IRRString renders the partner IRR, or "N/A" when it is not computable.
// A missing IRR is never rendered as 0%.
func (r *PartnerResult) IRRString() string {
	if r.IRR == nil {
		return "N/A"
	}
	return r.IRR.String()
}

// DealResult is the full outcome of a distribution calculation.
type DealResult struct {
	Method   DistributionMethod
	Partners []*PartnerResult
	Tiers    []TierLabel // band labels in evaluation order

	TotalInvestment    Money
	TotalDistributions Money
	UnpaidFees         Money // scheduled fees the project cash never covered
	IRR                *Rate
	EquityMultiple     float64
	Summary            PartnershipSummary
	Archetype          Archetype
}

// NetProfit is total distributions minus total invested capital.
func (d *DealResult) NetProfit() Money {
	return d.TotalDistributions.Sub(d.TotalInvestment)
}

// IRRString renders the deal IRR, or "N/A" when it is not computable.
func (d *DealResult) IRRString() string {
	if d.IRR == nil {
		return "N/A"
	}
	return d.IRR.String()
}

// Partner returns the result for the named partner, or nil.
func (d *DealResult) Partner(name string) *PartnerResult {
	for _, p := range d.Partners {
		if p.Partner.Name == name {
			return p
		}
	}
	return nil
}

// Reconcile verifies the dual-entry invariant: the project's distributable
// cash equals the sum over partners of waterfall and fee distributions, to
// the cent. It returns nil when the books tie.
func (d *DealResult) Reconcile() error {
	var partners Money
	for _, p := range d.Partners {
		partners = partners.Add(p.TotalDistributions())
	}
	total := d.TotalDistributions.Round()
	partners = partners.Round()
	if !total.Equal(partners) {
		return fmt.Errorf("distributions do not reconcile: project %s, partners %s", total, partners)
	}
	return nil
}

// classifyArchetype derives the deal archetype from the ledger contents.
func classifyArchetype(hasDraws bool) Archetype {
	if hasDraws {
		return Development
	}
	return Stabilized
}
