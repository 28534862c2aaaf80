// Package pricing computes move cost estimates from distance, size,
// requested services, and the move date.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrDistanceUnavailable indicates the distance capability could not resolve
// one of the endpoints. It is the estimator's only failure mode.
var ErrDistanceUnavailable = errors.New("distance unavailable")

// Distance resolves a driving distance in miles between two free-text
// locations.
type Distance interface {
	Drive(ctx context.Context, origin, destination string) (float64, error)
}

// RuralChecker reports whether a location counts as rural for surcharge
// purposes.
type RuralChecker interface {
	IsRural(location string) bool
}

// Input carries the four pricing-required fields plus requested services.
// Size must already be normalized; Date is an ISO calendar date.
type Input struct {
	Origin      string
	Destination string
	Size        string
	Services    []string
	Date        string
}

// Quote is a computed estimate. The [CostMin, CostMax] band is deliberately
// wide and asymmetric (x1.10 / x1.40 of the total); it communicates
// uncertainty, not a confidence interval.
type Quote struct {
	DistanceMiles float64 `json:"distance_miles"`
	CostMin       float64 `json:"cost_min"`
	CostMax       float64 `json:"cost_max"`
}

// Estimator prices moves using the tiered rate tables with seasonal and
// rural surcharges.
type Estimator struct {
	distance Distance
	rural    RuralChecker
	logger   *slog.Logger
}

// NewEstimator creates an estimator. rural may be nil, in which case no
// location is considered rural.
func NewEstimator(log *slog.Logger, distance Distance, rural RuralChecker) *Estimator {
	if log == nil {
		log = slog.Default()
	}
	return &Estimator{
		distance: distance,
		rural:    rural,
		logger:   log.With(slog.String("service", "pricing")),
	}
}

// Estimate computes a cost range. It fails only when the distance lookup
// fails (ErrDistanceUnavailable); unrecognized sizes and services degrade to
// zero surcharge with a logged warning.
func (e *Estimator) Estimate(ctx context.Context, in Input) (Quote, error) {
	miles, err := e.distance.Drive(ctx, in.Origin, in.Destination)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	baseCost := miles * RatePerMile

	sizeCost, known := sizeRate(in.Size)
	if !known {
		e.logger.Warn("unrecognized move size, defaulting to zero size cost",
			slog.String("size", in.Size))
	}

	additional := 0.0
	costs := serviceCosts(in.Size)
	for _, service := range in.Services {
		if cost, ok := costs[service]; ok {
			additional += cost
		}
	}

	total := baseCost + sizeCost + additional

	// Surcharges apply sequentially on the running total.
	if isPeakSeason(in.Date) {
		total += total * peakSeasonRate
	}
	if e.isRural(in.Origin) || e.isRural(in.Destination) {
		total += total * ruralRate
	}

	return Quote{
		DistanceMiles: miles,
		CostMin:       round2(total * rangeMinFactor),
		CostMax:       round2(total * rangeMaxFactor),
	}, nil
}

func (e *Estimator) isRural(location string) bool {
	return e.rural != nil && e.rural.IsRural(location)
}

// isPeakSeason reports whether the ISO date falls in June, July, or August.
// Unparseable dates count as off-peak.
func isPeakSeason(date string) bool {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	month := parsed.Month()
	return month >= time.June && month <= time.August
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
