package waterfall

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// CommandType is a typed string for identifying deal file commands.
type CommandType string

// Command types used in deal files.
const (
	CmdTimeline   CommandType = "timeline"
	CmdPartner    CommandType = "partner"
	CmdPromote    CommandType = "promote"
	CmdContribute CommandType = "contribute"
	CmdDraw       CommandType = "draw"
	CmdDistribute CommandType = "distribute"
	CmdFee        CommandType = "fee"
)

// FlowEntry is a dated money movement recorded in the deal file. Contribute
// and draw entries are capital going into the deal, distribute entries are
// cash coming out. Amounts are recorded as positive magnitudes; the sign is
// carried by the kind.
type FlowEntry struct {
	Kind   CommandType `json:"command"`
	Date   Date        `json:"date"`
	Amount Money       `json:"amount"`
	Memo   string      `json:"memo,omitempty"`
}

// Deal is the full definition of one analysis: the timeline, the equity
// partnership, the fee schedules and the recorded cash movements. It is
// assembled from a deal file and consumed whole by Analyze.
type Deal struct {
	Timeline Timeline
	Currency string
	Partners []Partner
	Method   DistributionMethod
	Promote  *Promote
	Fees     []FeeSchedule
	Flows    []FlowEntry
}

// NewDeal returns an empty deal in the given currency (USD when blank).
func NewDeal(currency string) *Deal {
	if currency == "" {
		currency = money.USD
	}
	return &Deal{Currency: currency, Method: PariPassu}
}

// Structure assembles and validates the deal's partnership structure.
func (d *Deal) Structure() (*PartnershipStructure, error) {
	s := &PartnershipStructure{Partners: d.Partners, Method: d.Method, Promote: d.Promote}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Series assembles the deal-level signed cash-flow series from the recorded
// flow entries, bucketed to monthly periods by date.
func (d *Deal) Series() (*Series, error) {
	if err := d.Timeline.Validate(); err != nil {
		return nil, err
	}
	s := NewSeries(d.Timeline, d.Currency)
	for _, f := range d.Flows {
		amount := f.Amount.Abs()
		if f.Kind != CmdDistribute {
			amount = amount.Neg()
		}
		if err := s.AccrueOn(f.Date, amount); err != nil {
			return nil, fmt.Errorf("%s entry: %w", f.Kind, err)
		}
	}
	return s, nil
}

// HasDraws reports whether the deal records construction draws.
func (d *Deal) HasDraws() bool {
	for _, f := range d.Flows {
		if f.Kind == CmdDraw {
			return true
		}
	}
	return false
}

// Analyze runs the full calculation: fee overlay, waterfall distribution and
// archetype classification. It is a pure function of the deal definition.
func (d *Deal) Analyze() (*DealResult, error) {
	structure, err := d.Structure()
	if err != nil {
		return nil, err
	}
	series, err := d.Series()
	if err != nil {
		return nil, err
	}
	result, err := DistributeWithFees(series, structure, d.Fees)
	if err != nil {
		return nil, err
	}
	result.Archetype = classifyArchetype(d.HasDraws())
	return result, nil
}
