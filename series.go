package waterfall

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Series is a monthly-indexed signed cash-flow series over a Timeline.
// Negative values are capital contributions, positive values are
// distributable cash.
type Series struct {
	timeline Timeline
	cur      string
	values   []decimal.Decimal
}

// NewSeries returns an all-zero series over the given timeline.
func NewSeries(t Timeline, currency string) *Series {
	return &Series{
		timeline: t,
		cur:      currency,
		values:   make([]decimal.Decimal, t.Months),
	}
}

// Timeline returns the series' timeline.
func (s *Series) Timeline() Timeline { return s.timeline }

// Len returns the number of monthly periods.
func (s *Series) Len() int { return s.timeline.Months }

// Currency returns the series' currency code.
func (s *Series) Currency() string { return s.cur }

// At returns the amount at period i.
func (s *Series) At(i int) Money { return Money{value: s.values[i], cur: s.cur} }

// Set replaces the amount at period i.
func (s *Series) Set(i int, m Money) { s.values[i] = m.value }

// Accrue adds m to the amount at period i.
func (s *Series) Accrue(i int, m Money) { s.values[i] = s.values[i].Add(m.value) }

// AccrueOn adds m to the period containing date d.
func (s *Series) AccrueOn(d Date, m Money) error {
	i, err := s.timeline.Index(d)
	if err != nil {
		return fmt.Errorf("cannot place %s flow: %w", m, err)
	}
	s.Accrue(i, m)
	return nil
}

// Clone returns an independent copy of the series.
func (s *Series) Clone() *Series {
	c := NewSeries(s.timeline, s.cur)
	copy(c.values, s.values)
	return c
}

// Scale returns a new series with every amount multiplied by f.
func (s *Series) Scale(f decimal.Decimal) *Series {
	c := NewSeries(s.timeline, s.cur)
	for i, v := range s.values {
		c.values[i] = v.Mul(f)
	}
	return c
}

// Plus returns the element-wise sum of s and o. Both series must share the
// same timeline.
func (s *Series) Plus(o *Series) (*Series, error) {
	if s.timeline != o.timeline {
		return nil, fmt.Errorf("%w: cannot sum series over different timelines", ErrConfiguration)
	}
	c := s.Clone()
	for i, v := range o.values {
		c.values[i] = c.values[i].Add(v)
	}
	return c, nil
}

// TotalContributions returns the sum of negative amounts, as a positive magnitude.
func (s *Series) TotalContributions() Money {
	total := decimal.Zero
	for _, v := range s.values {
		if v.IsNegative() {
			total = total.Add(v.Neg())
		}
	}
	return Money{value: total, cur: s.cur}
}

// TotalDistributions returns the sum of positive amounts.
func (s *Series) TotalDistributions() Money {
	total := decimal.Zero
	for _, v := range s.values {
		if v.IsPositive() {
			total = total.Add(v)
		}
	}
	return Money{value: total, cur: s.cur}
}

// Total returns the signed sum of all amounts.
func (s *Series) Total() Money {
	total := decimal.Zero
	for _, v := range s.values {
		total = total.Add(v)
	}
	return Money{value: total, cur: s.cur}
}

// Flows returns the non-zero amounts as dated flows, in period order,
// suitable for the time-value engine.
func (s *Series) Flows() []DatedFlow {
	var flows []DatedFlow
	for i, v := range s.values {
		if v.IsZero() {
			continue
		}
		flows = append(flows, DatedFlow{Date: s.timeline.PeriodDate(i), Amount: v.InexactFloat64()})
	}
	return flows
}

// EquityMultiple returns total distributions over total contributions.
// The second return is false when there is no invested capital.
func (s *Series) EquityMultiple() (float64, bool) {
	invested := s.TotalContributions()
	if invested.IsZero() {
		return 0, false
	}
	return s.TotalDistributions().Over(invested).InexactFloat64(), true
}
