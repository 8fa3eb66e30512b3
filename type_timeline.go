package waterfall

import "fmt"

// Timeline is the monthly grid of a deal analysis: a start date and a
// duration in months. Period i covers the month starting at
// Start.AddMonth(i).
type Timeline struct {
	Start  Date `json:"start"`
	Months int  `json:"months"`
}

// NewTimeline returns a Timeline starting on start and spanning months periods.
func NewTimeline(start Date, months int) Timeline {
	return Timeline{Start: start, Months: months}
}

// Validate checks that the timeline is usable.
func (t Timeline) Validate() error {
	if t.Start.IsZero() {
		return fmt.Errorf("%w: timeline start date is missing", ErrConfiguration)
	}
	if t.Months <= 0 {
		return fmt.Errorf("%w: timeline must span at least one month, got %d", ErrConfiguration, t.Months)
	}
	return nil
}

// PeriodDate returns the date of period i (the first day of that month slot).
func (t Timeline) PeriodDate(i int) Date { return t.Start.AddMonth(i) }

// End returns the date right after the last period.
func (t Timeline) End() Date { return t.Start.AddMonth(t.Months) }

// Index returns the period containing the date d.
func (t Timeline) Index(d Date) (int, error) {
	if d.Before(t.Start) || !d.Before(t.End()) {
		return 0, fmt.Errorf("%w: date %s is outside the timeline [%s, %s)", ErrConfiguration, d, t.Start, t.End())
	}
	months := (d.Year()-t.Start.Year())*12 + int(d.Month()-t.Start.Month())
	// a day-of-month before the start's lands in the previous period
	if d.Day() < t.Start.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months, nil
}
