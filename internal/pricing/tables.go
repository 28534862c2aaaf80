package pricing

import (
	"strconv"
	"strings"
)

// Rate constants for the cost model. The 0.80 multiplier over the baseline
// unit cost is baked into the size table values.
const (
	RatePerMile    = 1.50
	peakSeasonRate = 0.10
	ruralRate      = 0.10
	rangeMinFactor = 1.10
	rangeMaxFactor = 1.40
)

// sizeRates is the hand-tuned per-tier size cost table (0.80 x baseline).
var sizeRates = map[string]float64{
	"studio":    320,
	"1-bedroom": 640,
	"2-bedroom": 960,
	"3-bedroom": 1280,
	"4-bedroom": 1600,
	"office":    2000,
	"car":       120,
}

// flatServiceCosts is the fallback for non-bedroom categories.
var flatServiceCosts = map[string]float64{
	"packing": 150,
	"storage": 100,
}

// sizeRate returns the size surcharge for a normalized size token. Tiers
// beyond 4 bedrooms extrapolate linearly at +320 per additional bedroom,
// continuing the table's upper slope. Unrecognized tokens report ok=false.
func sizeRate(size string) (float64, bool) {
	if rate, ok := sizeRates[size]; ok {
		return rate, true
	}
	if n, ok := bedroomCount(size); ok && n > 4 {
		return sizeRates["4-bedroom"] + float64(n-4)*320, true
	}
	return 0, false
}

// serviceCosts returns per-service costs scaled to the declared size:
// studio {packing:100, storage:80}, 1-bedroom {150, 130}, +50 per extra
// bedroom, and the flat fallback for everything else.
func serviceCosts(size string) map[string]float64 {
	if size == "studio" {
		return map[string]float64{"packing": 100, "storage": 80}
	}
	if n, ok := bedroomCount(size); ok {
		extra := float64(n-1) * 50
		return map[string]float64{"packing": 150 + extra, "storage": 130 + extra}
	}
	costs := make(map[string]float64, len(flatServiceCosts))
	for service, cost := range flatServiceCosts {
		costs[service] = cost
	}
	return costs
}

func bedroomCount(size string) (int, bool) {
	prefix, found := strings.CutSuffix(size, "-bedroom")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
