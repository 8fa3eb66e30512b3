package waterfall

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoSolution is returned when an internal rate of return does not exist
// for a cash-flow series (all flows share a sign, or too few flows).
// Callers must report the IRR as not computable, never as zero.
var ErrNoSolution = errors.New("no internal rate of return")

// DatedFlow is a signed cash flow on a calendar date.
type DatedFlow struct {
	Date   Date
	Amount float64
}

// irr solver bounds. Rates below -99.99% or above 1000% per year are not
// meaningful for deal analysis.
const (
	irrLow  = -0.9999
	irrHigh = 10.0
)

const irrTolerance = 1e-9

// XIRR computes the annualized internal rate of return of irregularly dated
// cash flows: the rate r such that the net present value of the flows,
// discounted with ACT/365.25 year fractions from the earliest flow, is zero.
//
// It runs Newton iterations first and falls back to bisection over a
// bracketing interval when Newton diverges.
func XIRR(flows []DatedFlow) (Rate, error) {
	if len(flows) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 dated flows, got %d", ErrNoSolution, len(flows))
	}
	var positive, negative bool
	for _, f := range flows {
		if f.Amount > 0 {
			positive = true
		}
		if f.Amount < 0 {
			negative = true
		}
	}
	if !positive || !negative {
		return 0, fmt.Errorf("%w: flows must contain both contributions and distributions", ErrNoSolution)
	}

	origin := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(origin) {
			origin = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = origin.Years(f.Date)
	}

	npv := func(r float64) float64 {
		s := 0.0
		for i, f := range flows {
			s += f.Amount / math.Pow(1+r, years[i])
		}
		return s
	}
	dnpv := func(r float64) float64 {
		s := 0.0
		for i, f := range flows {
			if years[i] == 0 {
				continue
			}
			s -= years[i] * f.Amount / math.Pow(1+r, years[i]+1)
		}
		return s
	}

	// Newton from a 10% seed.
	r := 0.1
	for range 100 {
		d := dnpv(r)
		if d == 0 {
			break
		}
		next := r - npv(r)/d
		if next <= irrLow || next >= irrHigh || math.IsNaN(next) {
			break
		}
		if math.Abs(next-r) < irrTolerance {
			return Rate(next), nil
		}
		r = next
	}

	// Bisection fallback over a bracketing interval.
	lo, hi := irrLow, irrHigh
	flo, fhi := npv(lo), npv(hi)
	if flo*fhi > 0 {
		return 0, fmt.Errorf("%w: rate is not bracketed in (%.4f, %.0f)", ErrNoSolution, irrLow, irrHigh)
	}
	for range 200 {
		mid := (lo + hi) / 2
		fmid := npv(mid)
		if fmid == 0 || (hi-lo)/2 < irrTolerance {
			return Rate(mid), nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return Rate((lo + hi) / 2), nil
}

// EquityMultiple returns the sum of positive flows over the magnitude of
// negative flows. The second return is false when there is no investment.
func EquityMultiple(flows []DatedFlow) (float64, bool) {
	var in, out float64
	for _, f := range flows {
		if f.Amount > 0 {
			out += f.Amount
		} else {
			in -= f.Amount
		}
	}
	if in == 0 {
		return 0, false
	}
	return out / in, true
}

// solveTierSplit returns the largest additional distribution x in [0, limit],
// paid on date on, that keeps XIRR(past + x) at or below the target hurdle.
// It returns 0 when the past flows alone already clear the hurdle, and limit
// when even the full amount does not reach it.
//
// This is the split solver the distribution engine uses to locate the exact
// boundary of an IRR tier inside a period's distributable cash.
func solveTierSplit(past []DatedFlow, on Date, target Rate, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	at := func(x float64) Rate {
		flows := append(append([]DatedFlow{}, past...), DatedFlow{Date: on, Amount: x})
		r, err := XIRR(flows)
		if err != nil {
			// with no solvable rate the hurdle cannot be met
			return Rate(math.Inf(-1))
		}
		return r
	}
	if at(limit) <= target {
		return limit
	}
	if at(0) >= target {
		return 0
	}
	lo, hi := 0.0, limit
	for range 100 {
		mid := (lo + hi) / 2
		if at(mid) <= target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-6 {
			break
		}
	}
	return lo
}
