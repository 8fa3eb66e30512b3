package waterfall

import (
	"errors"
	"testing"
	"time"
)

func TestTimeline_Validate(t *testing.T) {
	if err := NewTimeline(NewDate(2024, time.January, 1), 12).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := NewTimeline(Date{}, 12).Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Validate() error = %v, want ErrConfiguration for a zero start", err)
	}
	if err := NewTimeline(NewDate(2024, time.January, 1), 0).Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Validate() error = %v, want ErrConfiguration for zero months", err)
	}
}

func TestTimeline_PeriodDate(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.November, 15), 6)
	if got, want := tl.PeriodDate(0), NewDate(2024, time.November, 15); got != want {
		t.Errorf("PeriodDate(0) = %s, want %s", got, want)
	}
	if got, want := tl.PeriodDate(2), NewDate(2025, time.January, 15); got != want {
		t.Errorf("PeriodDate(2) = %s, want %s", got, want)
	}
	if got, want := tl.End(), NewDate(2025, time.May, 15); got != want {
		t.Errorf("End() = %s, want %s", got, want)
	}
}

func TestTimeline_Index(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 15), 12)

	tests := []struct {
		name string
		date Date
		want int
		ok   bool
	}{
		{"start date", NewDate(2024, time.January, 15), 0, true},
		{"mid first period", NewDate(2024, time.February, 10), 0, true},
		{"second period", NewDate(2024, time.February, 15), 1, true},
		{"day before anniversary", NewDate(2024, time.June, 14), 4, true},
		{"last period", NewDate(2025, time.January, 14), 11, true},
		{"before start", NewDate(2024, time.January, 1), 0, false},
		{"after end", NewDate(2025, time.January, 15), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tl.Index(tt.date)
			if tt.ok {
				if err != nil {
					t.Fatalf("Index(%s) error = %v", tt.date, err)
				}
				if got != tt.want {
					t.Errorf("Index(%s) = %d, want %d", tt.date, got, tt.want)
				}
				return
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Index(%s) error = %v, want ErrConfiguration", tt.date, err)
			}
		})
	}
}
