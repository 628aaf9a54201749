package payoff

import (
	"math"

	"optionlab/internal/models"
)

const (
	// DefaultSampleCount is the number of intervals sampled across the price range.
	DefaultSampleCount = 100

	// rangeFraction of the average strike is sampled on each side, but never less than minRangeWidth.
	rangeFraction = 0.5
	minRangeWidth = 50.0
)

// CurveOptions controls how the payoff curve is sampled. Zero value means defaults.
type CurveOptions struct {
	MinPrice    *float64
	MaxPrice    *float64
	SampleCount int
}

// WithRange returns a copy of o with explicit price bounds.
func (o CurveOptions) WithRange(lo, hi float64) CurveOptions {
	o.MinPrice = &lo
	o.MaxPrice = &hi
	return o
}

func (o CurveOptions) samples() int {
	if o.SampleCount <= 0 {
		return DefaultSampleCount
	}
	return o.SampleCount
}

// Range returns the window GenerateCurve samples for legs: the default range
// with any explicit bound from o applied.
func (o CurveOptions) Range(legs []models.OptionLeg) (lo, hi float64) {
	lo, hi = DefaultRange(legs)
	if o.MinPrice != nil {
		lo = *o.MinPrice
	}
	if o.MaxPrice != nil {
		hi = *o.MaxPrice
	}
	return lo, hi
}

// DefaultRange returns the price window centred on the average strike of legs.
func DefaultRange(legs []models.OptionLeg) (lo, hi float64) {
	if len(legs) == 0 {
		return 0, 0
	}

	var total float64
	for _, leg := range legs {
		total += leg.Strike
	}
	avgStrike := total / float64(len(legs))
	width := math.Max(avgStrike*rangeFraction, minRangeWidth)

	return math.Max(0, avgStrike-width), avgStrike + width
}

// GenerateCurve samples the aggregate payoff of legs at SampleCount+1 evenly spaced
// prices. Prices and payoffs are rounded to two decimals.
func GenerateCurve(legs []models.OptionLeg, opts CurveOptions) []models.PayoffPoint {
	if len(legs) == 0 {
		return []models.PayoffPoint{}
	}

	lo, hi := opts.Range(legs)
	n := opts.samples()
	step := (hi - lo) / float64(n)

	points := make([]models.PayoffPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		price := lo + step*float64(i)
		points = append(points, models.PayoffPoint{
			Price:  round2(price),
			Payoff: round2(StrategyPayoff(legs, price)),
		})
	}

	return points
}
