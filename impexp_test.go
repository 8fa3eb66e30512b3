package waterfall

import (
	"strings"
	"testing"
	"time"
)

func TestImportSeries(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 6)
	doc := `{
		"deal": "Riverside",
		"cashflows": {
			"contributions": [1000000, 250000],
			"distributions": [0, 0, 0, 120000, 120000, 1500000]
		}
	}`

	s, err := ImportSeries(strings.NewReader(doc), "$.cashflows.distributions", tl, "USD")
	if err != nil {
		t.Fatalf("ImportSeries() error = %v", err)
	}
	if !s.At(3).Equal(USD(120_000)) || !s.At(5).Equal(USD(1_500_000)) {
		t.Errorf("series = [%s ... %s %s], want the distribution profile", s.At(0), s.At(3), s.At(5))
	}
	if !s.TotalDistributions().Equal(USD(1_740_000)) {
		t.Errorf("TotalDistributions() = %s, want $1,740,000.00", s.TotalDistributions())
	}
}

func TestImportSeries_ShorterArray(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 6)
	s, err := ImportSeries(strings.NewReader(`{"v": [10, 20]}`), "$.v", tl, "USD")
	if err != nil {
		t.Fatalf("ImportSeries() error = %v", err)
	}
	if !s.At(1).Equal(USD(20)) || !s.At(5).IsZero() {
		t.Errorf("shorter array should leave the tail at zero, got At(5) = %s", s.At(5))
	}
}

func TestImportSeries_LoneNumber(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 6)
	s, err := ImportSeries(strings.NewReader(`{"total": 500}`), "$.total", tl, "USD")
	if err != nil {
		t.Fatalf("ImportSeries() error = %v", err)
	}
	if !s.At(0).Equal(USD(500)) {
		t.Errorf("At(0) = %s, want a one-period series of $500.00", s.At(0))
	}
}

func TestImportSeries_Errors(t *testing.T) {
	tl := NewTimeline(NewDate(2024, time.January, 1), 2)
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"not json", `not json at all`, "$.v"},
		{"path misses", `{"v": [1]}`, "$.other"},
		{"longer than timeline", `{"v": [1, 2, 3]}`, "$.v"},
		{"not numbers", `{"v": ["a", "b"]}`, "$.v"},
		{"selects an object", `{"v": {"a": 1}}`, "$.v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportSeries(strings.NewReader(tt.doc), tt.path, tl, "USD"); err == nil {
				t.Error("ImportSeries() = nil, want error")
			}
		})
	}
}
