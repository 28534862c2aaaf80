package pricing

import (
	"context"
	"errors"
	"math"
	"testing"
)

type stubDistance struct {
	miles float64
	err   error
}

func (d *stubDistance) Drive(_ context.Context, _, _ string) (float64, error) {
	return d.miles, d.err
}

type stubRural struct {
	rural map[string]bool
}

func (r *stubRural) IsRural(location string) bool { return r.rural[location] }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSizeRate(t *testing.T) {
	cases := []struct {
		size    string
		want    float64
		known   bool
	}{
		{"studio", 320, true},
		{"1-bedroom", 640, true},
		{"2-bedroom", 960, true},
		{"3-bedroom", 1280, true},
		{"4-bedroom", 1600, true},
		{"office", 2000, true},
		{"car", 120, true},
		{"5-bedroom", 1920, true},
		{"7-bedroom", 2560, true},
		{"mansion", 0, false},
	}
	for _, tc := range cases {
		got, known := sizeRate(tc.size)
		if got != tc.want || known != tc.known {
			t.Fatalf("sizeRate(%q) = (%v, %v), want (%v, %v)", tc.size, got, known, tc.want, tc.known)
		}
	}
}

func TestServiceCosts(t *testing.T) {
	cases := []struct {
		size    string
		packing float64
		storage float64
	}{
		{"studio", 100, 80},
		{"1-bedroom", 150, 130},
		{"2-bedroom", 200, 180},
		{"4-bedroom", 300, 280},
		{"office", 150, 100},
		{"car", 150, 100},
		{"mansion", 150, 100},
	}
	for _, tc := range cases {
		costs := serviceCosts(tc.size)
		if costs["packing"] != tc.packing || costs["storage"] != tc.storage {
			t.Fatalf("serviceCosts(%q) = %v, want packing=%v storage=%v",
				tc.size, costs, tc.packing, tc.storage)
		}
	}
}

func TestEstimateOffPeak(t *testing.T) {
	e := NewEstimator(nil, &stubDistance{miles: 2500}, nil)
	quote, err := e.Estimate(context.Background(), Input{
		Origin:      "New York",
		Destination: "Vegas",
		Size:        "2-bedroom",
		Date:        "2026-03-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2500 * 1.50 + 960 = 4710; band 1.10 / 1.40.
	if !almostEqual(quote.CostMin, 5181.00) || !almostEqual(quote.CostMax, 6594.00) {
		t.Fatalf("quote = %+v, want min=5181 max=6594", quote)
	}
	if quote.CostMin >= quote.CostMax {
		t.Fatal("cost range must satisfy min < max")
	}
}

func TestEstimatePeakSeasonAndServices(t *testing.T) {
	e := NewEstimator(nil, &stubDistance{miles: 100}, nil)
	quote, err := e.Estimate(context.Background(), Input{
		Origin:      "Chicago",
		Destination: "Houston",
		Size:        "3-bedroom",
		Services:    []string{"packing", "storage"},
		Date:        "2026-07-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100*1.50 + 1280 + (250 + 230) = 1910; peak +10% = 2101.
	if !almostEqual(quote.CostMin, round2(2101*1.10)) || !almostEqual(quote.CostMax, round2(2101*1.40)) {
		t.Fatalf("quote = %+v", quote)
	}
}

func TestEstimateRuralSurchargeSequential(t *testing.T) {
	rural := &stubRural{rural: map[string]bool{"Smallville": true}}
	e := NewEstimator(nil, &stubDistance{miles: 100}, rural)
	quote, err := e.Estimate(context.Background(), Input{
		Origin:      "Smallville",
		Destination: "Metropolis",
		Size:        "studio",
		Date:        "2026-06-15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100*1.50 + 320 = 470; peak then rural, each on the running total.
	total := 470.0 * 1.10 * 1.10
	if !almostEqual(quote.CostMin, round2(total*1.10)) || !almostEqual(quote.CostMax, round2(total*1.40)) {
		t.Fatalf("quote = %+v, want surcharges applied sequentially", quote)
	}
}

func TestEstimateUnknownSizeDegrades(t *testing.T) {
	e := NewEstimator(nil, &stubDistance{miles: 10}, nil)
	quote, err := e.Estimate(context.Background(), Input{
		Origin:      "A",
		Destination: "B",
		Size:        "mansion",
		Services:    []string{"packing"},
		Date:        "2026-03-01",
	})
	if err != nil {
		t.Fatalf("unknown size must not fail: %v", err)
	}
	// 10*1.50 + 0 + 150 (flat fallback packing) = 165.
	if !almostEqual(quote.CostMin, round2(165*1.10)) {
		t.Fatalf("quote = %+v", quote)
	}
}

func TestEstimateDistanceUnavailable(t *testing.T) {
	e := NewEstimator(nil, &stubDistance{err: errors.New("no route")}, nil)
	_, err := e.Estimate(context.Background(), Input{Origin: "A", Destination: "B"})
	if !errors.Is(err, ErrDistanceUnavailable) {
		t.Fatalf("error = %v, want ErrDistanceUnavailable", err)
	}
}
