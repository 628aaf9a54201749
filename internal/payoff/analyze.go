package payoff

import (
	"math"

	"optionlab/internal/models"
)

const (
	// EdgeTolerance is how much the payoff must still be moving near an edge of the
	// sampled window for that extreme to count as unbounded.
	EdgeTolerance = 100.0

	// EdgeLookback is how many samples inward the edge payoff is compared against.
	EdgeLookback = 5
)

// Analyze summarises legs over the default price window.
func Analyze(legs []models.OptionLeg) models.StrategyAnalysis {
	return AnalyzeWith(legs, CurveOptions{})
}

// AnalyzeWith summarises legs over the window described by opts.
func AnalyzeWith(legs []models.OptionLeg, opts CurveOptions) models.StrategyAnalysis {
	if len(legs) == 0 {
		return models.StrategyAnalysis{
			Breakevens: []float64{},
			MaxProfit:  models.Finite(0),
			MaxLoss:    models.Finite(0),
			PayoffData: []models.PayoffPoint{},
		}
	}

	curve := GenerateCurve(legs, opts)
	maxPayoff, minPayoff := extremes(curve)

	analysis := models.StrategyAnalysis{
		Breakevens: FindBreakevens(curve),
		MaxProfit:  models.Finite(maxPayoff),
		MaxLoss:    models.Finite(math.Abs(minPayoff)),
		NetPremium: NetPremium(legs),
		PayoffData: curve,
	}
	if divergesAtEdge(curve, maxPayoff) {
		analysis.MaxProfit = models.Unlimited()
	}
	if divergesAtEdge(curve, minPayoff) {
		analysis.MaxLoss = models.Unlimited()
	}

	return analysis
}

// FindBreakevens linearly interpolates every zero crossing between adjacent samples.
// A sample sitting exactly on zero is reported by both pairs it belongs to, so the
// result may contain duplicates.
func FindBreakevens(curve []models.PayoffPoint) []float64 {
	breakevens := []float64{}

	for i := 1; i < len(curve); i++ {
		prev, curr := curve[i-1], curve[i]

		crosses := (prev.Payoff <= 0 && curr.Payoff >= 0) || (prev.Payoff >= 0 && curr.Payoff <= 0)
		if !crosses {
			continue
		}

		var ratio float64
		if span := math.Abs(prev.Payoff) + math.Abs(curr.Payoff); span > 0 {
			ratio = math.Abs(prev.Payoff) / span
		}
		breakevens = append(breakevens, round2(prev.Price+(curr.Price-prev.Price)*ratio))
	}

	return breakevens
}

func extremes(curve []models.PayoffPoint) (hi, lo float64) {
	hi, lo = math.Inf(-1), math.Inf(1)
	for _, p := range curve {
		hi = math.Max(hi, p.Payoff)
		lo = math.Min(lo, p.Payoff)
	}
	return hi, lo
}

// divergesAtEdge reports whether extreme sits on the first or last sample while the
// curve is still moving by more than EdgeTolerance over EdgeLookback samples.
func divergesAtEdge(curve []models.PayoffPoint, extreme float64) bool {
	n := len(curve)
	if n <= EdgeLookback {
		return false
	}

	first, last := curve[0].Payoff, curve[n-1].Payoff
	if extreme == first && math.Abs(first-curve[EdgeLookback].Payoff) > EdgeTolerance {
		return true
	}
	return extreme == last && math.Abs(last-curve[n-1-EdgeLookback].Payoff) > EdgeTolerance
}
