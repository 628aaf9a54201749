package payoff

import (
	"github.com/montanaflynn/stats"

	"optionlab/internal/models"
)

// CurveStats describes the distribution of payoffs across a sampled window.
// Samples are evenly spaced in price, so these are window averages, not
// probability-weighted expectations.
type CurveStats struct {
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	StdDev          float64 `json:"std_dev"`
	ProfitableShare float64 `json:"profitable_share"`
}

// Summarize computes CurveStats for curve. An empty curve yields zero stats.
func Summarize(curve []models.PayoffPoint) CurveStats {
	if len(curve) == 0 {
		return CurveStats{}
	}

	data := make(stats.Float64Data, len(curve))
	profitable := 0
	for i, p := range curve {
		data[i] = p.Payoff
		if p.Payoff > 0 {
			profitable++
		}
	}

	// Errors only arise for empty input, which is handled above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	stdDev, _ := data.StandardDeviation()

	return CurveStats{
		Mean:            round2(mean),
		Median:          round2(median),
		StdDev:          round2(stdDev),
		ProfitableShare: float64(profitable) / float64(len(curve)),
	}
}
