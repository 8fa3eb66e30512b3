package waterfall

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestXIRR(t *testing.T) {
	d := func(y int, m time.Month, day int) Date { return NewDate(y, m, day) }

	t.Run("single round trip", func(t *testing.T) {
		flows := []DatedFlow{
			{Date: d(2020, time.January, 1), Amount: -1000},
			{Date: d(2021, time.January, 1), Amount: 1100},
		}
		got, err := XIRR(flows)
		if err != nil {
			t.Fatalf("XIRR() error = %v", err)
		}
		// exact solution of 1100/(1+r)^y = 1000 with y in ACT/365.25 years
		years := flows[0].Date.Years(flows[1].Date)
		want := math.Pow(1.1, 1/years) - 1
		if math.Abs(float64(got)-want) > 1e-6 {
			t.Errorf("XIRR() = %v, want %v", got, want)
		}
	})

	t.Run("multiple distributions zero the NPV", func(t *testing.T) {
		flows := []DatedFlow{
			{Date: d(2020, time.January, 1), Amount: -10_000},
			{Date: d(2021, time.January, 1), Amount: 4_000},
			{Date: d(2022, time.January, 1), Amount: 4_000},
			{Date: d(2023, time.January, 1), Amount: 4_000},
		}
		r, err := XIRR(flows)
		if err != nil {
			t.Fatalf("XIRR() error = %v", err)
		}
		npv := 0.0
		for _, f := range flows {
			npv += f.Amount / math.Pow(1+float64(r), flows[0].Date.Years(f.Date))
		}
		if math.Abs(npv) > 1e-3 {
			t.Errorf("NPV at XIRR = %v, want ~0", npv)
		}
	})

	t.Run("negative return", func(t *testing.T) {
		flows := []DatedFlow{
			{Date: d(2020, time.January, 1), Amount: -1000},
			{Date: d(2021, time.January, 1), Amount: 800},
		}
		r, err := XIRR(flows)
		if err != nil {
			t.Fatalf("XIRR() error = %v", err)
		}
		if r >= 0 {
			t.Errorf("XIRR() = %v, want negative for a losing deal", r)
		}
	})

	t.Run("unordered flows", func(t *testing.T) {
		// the earliest flow is the origin regardless of slice order
		a, err := XIRR([]DatedFlow{
			{Date: d(2021, time.January, 1), Amount: 1100},
			{Date: d(2020, time.January, 1), Amount: -1000},
		})
		if err != nil {
			t.Fatalf("XIRR() error = %v", err)
		}
		b, err := XIRR([]DatedFlow{
			{Date: d(2020, time.January, 1), Amount: -1000},
			{Date: d(2021, time.January, 1), Amount: 1100},
		})
		if err != nil {
			t.Fatalf("XIRR() error = %v", err)
		}
		if !a.Equal(b) {
			t.Errorf("XIRR depends on flow order: %v != %v", a, b)
		}
	})
}

func TestXIRR_NoSolution(t *testing.T) {
	d := NewDate(2020, time.January, 1)
	tests := []struct {
		name  string
		flows []DatedFlow
	}{
		{"no flows", nil},
		{"one flow", []DatedFlow{{Date: d, Amount: -1000}}},
		{"all negative", []DatedFlow{{Date: d, Amount: -1000}, {Date: d.AddMonth(12), Amount: -500}}},
		{"all positive", []DatedFlow{{Date: d, Amount: 1000}, {Date: d.AddMonth(12), Amount: 500}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XIRR(tt.flows)
			if !errors.Is(err, ErrNoSolution) {
				t.Errorf("XIRR() error = %v, want ErrNoSolution", err)
			}
		})
	}
}

func TestEquityMultiple(t *testing.T) {
	d := NewDate(2020, time.January, 1)
	flows := []DatedFlow{
		{Date: d, Amount: -1000},
		{Date: d.AddMonth(6), Amount: -500},
		{Date: d.AddMonth(24), Amount: 2250},
	}
	got, ok := EquityMultiple(flows)
	if !ok {
		t.Fatal("EquityMultiple() not computable, want 1.5x")
	}
	if math.Abs(got-1.5) > 1e-12 {
		t.Errorf("EquityMultiple() = %v, want 1.5", got)
	}

	if _, ok := EquityMultiple([]DatedFlow{{Date: d, Amount: 100}}); ok {
		t.Error("EquityMultiple() computable without investment, want not")
	}
}

func TestSolveTierSplit(t *testing.T) {
	start := NewDate(2020, time.January, 1)
	on := start.AddMonth(12)
	past := []DatedFlow{{Date: start, Amount: -1000}}
	years := start.Years(on)

	t.Run("finds the hurdle boundary", func(t *testing.T) {
		// the exact distribution reaching a 10% IRR one year out
		want := 1000 * math.Pow(1.10, years)
		got := solveTierSplit(past, on, 0.10, 5000)
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("solveTierSplit() = %v, want %v", got, want)
		}
	})

	t.Run("caps at the limit", func(t *testing.T) {
		// $50 cannot lift the IRR anywhere near 10%: the whole band fits
		if got := solveTierSplit(past, on, 0.10, 50); got != 50 {
			t.Errorf("solveTierSplit() = %v, want the full limit 50", got)
		}
	})

	t.Run("zero when already above", func(t *testing.T) {
		rich := append(past, DatedFlow{Date: on, Amount: 2000})
		if got := solveTierSplit(rich, on, 0.10, 500); got != 0 {
			t.Errorf("solveTierSplit() = %v, want 0 when past flows clear the hurdle", got)
		}
	})

	t.Run("zero limit", func(t *testing.T) {
		if got := solveTierSplit(past, on, 0.10, 0); got != 0 {
			t.Errorf("solveTierSplit() = %v, want 0", got)
		}
	})
}
