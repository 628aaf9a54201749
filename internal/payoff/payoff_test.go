package payoff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionlab/internal/models"
)

func call(pos models.PositionType, strike, premium float64) models.OptionLeg {
	return models.OptionLeg{Type: models.Call, Position: pos, Strike: strike, Premium: premium, Quantity: 1}
}

func put(pos models.PositionType, strike, premium float64) models.OptionLeg {
	return models.OptionLeg{Type: models.Put, Position: pos, Strike: strike, Premium: premium, Quantity: 1}
}

func stock(pos models.PositionType, price float64, qty int) models.OptionLeg {
	return models.OptionLeg{Type: models.Stock, Position: pos, Strike: price, Quantity: qty}
}

func TestLegPayoff(t *testing.T) {
	t.Run("long call", func(t *testing.T) {
		leg := call(models.Long, 100, 5)
		assert.Equal(t, -500.0, LegPayoff(leg, 100))
		assert.Equal(t, 500.0, LegPayoff(leg, 110))
		assert.Equal(t, -500.0, LegPayoff(leg, 95))
	})

	t.Run("long put", func(t *testing.T) {
		leg := put(models.Long, 100, 5)
		assert.Equal(t, -500.0, LegPayoff(leg, 100))
		assert.Equal(t, 500.0, LegPayoff(leg, 90))
		assert.Equal(t, -500.0, LegPayoff(leg, 120))
	})

	t.Run("short call keeps premium below strike", func(t *testing.T) {
		leg := call(models.Short, 100, 5)
		assert.Equal(t, 500.0, LegPayoff(leg, 80))
		assert.Equal(t, -1500.0, LegPayoff(leg, 120))
	})

	t.Run("quantity scales contracts", func(t *testing.T) {
		leg := put(models.Short, 50, 2)
		leg.Quantity = 3
		assert.Equal(t, 600.0, LegPayoff(leg, 60))
		assert.Equal(t, -2400.0, LegPayoff(leg, 40))
	})

	t.Run("stock ignores premium", func(t *testing.T) {
		leg := stock(models.Short, 100, 2)
		leg.Premium = 7
		assert.Equal(t, 2000.0, LegPayoff(leg, 90))
		assert.Equal(t, -2000.0, LegPayoff(leg, 110))
	})

	t.Run("negative inputs are not rejected", func(t *testing.T) {
		leg := call(models.Long, -10, -1)
		assert.Equal(t, 1100.0, LegPayoff(leg, 0))
	})
}

func TestCoveredCall(t *testing.T) {
	legs := []models.OptionLeg{
		stock(models.Long, 100, 1),
		call(models.Short, 110, 3),
	}

	assert.Equal(t, 300.0, StrategyPayoff(legs, 100))
	assert.Equal(t, 1300.0, StrategyPayoff(legs, 115))
	assert.Equal(t, -700.0, StrategyPayoff(legs, 90))
	// capped above the short strike
	assert.Equal(t, StrategyPayoff(legs, 130), StrategyPayoff(legs, 150))
}

func TestNetPremium(t *testing.T) {
	legs := []models.OptionLeg{
		call(models.Long, 100, 5),
		put(models.Short, 90, 2.5),
		stock(models.Long, 100, 1),
	}
	assert.Equal(t, -250.0, NetPremium(legs))
	assert.Equal(t, 0.0, NetPremium(nil))
}

func TestDefaultRange(t *testing.T) {
	lo, hi := DefaultRange([]models.OptionLeg{call(models.Long, 200, 1)})
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 300.0, hi)

	lo, hi = DefaultRange([]models.OptionLeg{call(models.Long, 20, 1)})
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 70.0, hi)

	lo, hi = DefaultRange(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestGenerateCurve(t *testing.T) {
	legs := []models.OptionLeg{call(models.Long, 100, 5)}

	t.Run("default window", func(t *testing.T) {
		curve := GenerateCurve(legs, CurveOptions{})
		require.Len(t, curve, DefaultSampleCount+1)
		assert.Equal(t, 50.0, curve[0].Price)
		assert.Equal(t, 150.0, curve[len(curve)-1].Price)
		assert.Equal(t, -500.0, curve[0].Payoff)
		assert.Equal(t, 4500.0, curve[len(curve)-1].Payoff)
	})

	t.Run("explicit window and samples", func(t *testing.T) {
		curve := GenerateCurve(legs, CurveOptions{SampleCount: 4}.WithRange(100, 120))
		require.Len(t, curve, 5)
		assert.Equal(t, []float64{100, 105, 110, 115, 120}, prices(curve))
		assert.Equal(t, 1500.0, curve[4].Payoff)
	})

	t.Run("only min overridden", func(t *testing.T) {
		lo := 80.0
		curve := GenerateCurve(legs, CurveOptions{MinPrice: &lo, SampleCount: 7})
		assert.Equal(t, 80.0, curve[0].Price)
		assert.Equal(t, 150.0, curve[len(curve)-1].Price)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		curve := GenerateCurve(legs, CurveOptions{SampleCount: 3}.WithRange(100, 101))
		assert.Equal(t, 100.33, curve[1].Price)
		assert.Equal(t, 100.67, curve[2].Price)
	})

	t.Run("empty legs", func(t *testing.T) {
		curve := GenerateCurve(nil, CurveOptions{})
		assert.NotNil(t, curve)
		assert.Empty(t, curve)
	})
}

func TestFindBreakevens(t *testing.T) {
	t.Run("interpolates a crossing", func(t *testing.T) {
		curve := []models.PayoffPoint{{Price: 10, Payoff: -300}, {Price: 12, Payoff: 100}}
		assert.Equal(t, []float64{11.5}, FindBreakevens(curve))
	})

	t.Run("sample on zero is reported twice", func(t *testing.T) {
		curve := []models.PayoffPoint{{Price: 1, Payoff: -1}, {Price: 2, Payoff: 0}, {Price: 3, Payoff: 1}}
		assert.Equal(t, []float64{2, 2}, FindBreakevens(curve))
	})

	t.Run("flat zero segment does not produce NaN", func(t *testing.T) {
		curve := []models.PayoffPoint{{Price: 1, Payoff: 0}, {Price: 2, Payoff: 0}}
		be := FindBreakevens(curve)
		require.Len(t, be, 1)
		assert.False(t, math.IsNaN(be[0]))
		assert.Equal(t, 1.0, be[0])
	})

	t.Run("no crossing", func(t *testing.T) {
		curve := []models.PayoffPoint{{Price: 1, Payoff: 5}, {Price: 2, Payoff: 6}}
		assert.Empty(t, FindBreakevens(curve))
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("long call", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{call(models.Long, 100, 5)})
		assert.Equal(t, []float64{105, 105}, a.Breakevens)
		assert.True(t, a.MaxProfit.Unbounded)
		assert.Equal(t, models.Finite(500), a.MaxLoss)
		assert.Equal(t, -500.0, a.NetPremium)
	})

	t.Run("long put", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{put(models.Long, 100, 5)})
		assert.Equal(t, []float64{95, 95}, a.Breakevens)
		assert.Equal(t, models.Finite(500), a.MaxLoss)
		// still rising at the lower edge of the window
		assert.True(t, a.MaxProfit.Unbounded)
	})

	t.Run("long straddle", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{call(models.Long, 100, 5), put(models.Long, 100, 5)})
		assert.Equal(t, -1000.0, a.NetPremium)
		assert.Equal(t, []float64{90, 90, 110, 110}, a.Breakevens)
		assert.True(t, a.MaxProfit.Unbounded)
		assert.Equal(t, models.Finite(1000), a.MaxLoss)

		at100 := a.PayoffData[50]
		assert.Equal(t, 100.0, at100.Price)
		assert.Equal(t, -1000.0, at100.Payoff)
	})

	t.Run("short straddle", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{call(models.Short, 100, 5), put(models.Short, 100, 5)})
		assert.Equal(t, 1000.0, a.NetPremium)
		assert.Equal(t, models.Finite(1000), a.MaxProfit)
		assert.True(t, a.MaxLoss.Unbounded)
	})

	t.Run("iron condor is bounded on both sides", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{
			put(models.Long, 80, 1),
			put(models.Short, 90, 2.5),
			call(models.Short, 110, 2.5),
			call(models.Long, 120, 1),
		})
		assert.Equal(t, 300.0, a.NetPremium)
		assert.Equal(t, models.Finite(300), a.MaxProfit)
		assert.Equal(t, models.Finite(700), a.MaxLoss)
		assert.Equal(t, []float64{87, 87, 113, 113}, a.Breakevens)
	})

	t.Run("long stock diverges both ways", func(t *testing.T) {
		a := Analyze([]models.OptionLeg{stock(models.Long, 100, 2)})
		assert.True(t, a.MaxProfit.Unbounded)
		assert.True(t, a.MaxLoss.Unbounded)
		assert.Zero(t, a.NetPremium)
	})

	t.Run("empty legs", func(t *testing.T) {
		a := Analyze(nil)
		assert.Equal(t, models.StrategyAnalysis{
			Breakevens: []float64{},
			MaxProfit:  models.Finite(0),
			MaxLoss:    models.Finite(0),
			PayoffData: []models.PayoffPoint{},
		}, a)
	})

	t.Run("too few samples never diverge", func(t *testing.T) {
		a := AnalyzeWith([]models.OptionLeg{stock(models.Long, 100, 1)}, CurveOptions{SampleCount: 3})
		assert.Len(t, a.PayoffData, 4)
		assert.False(t, a.MaxProfit.Unbounded)
		assert.False(t, a.MaxLoss.Unbounded)
	})

	t.Run("edge change of exactly the tolerance stays finite", func(t *testing.T) {
		// 0.2 per sample, so five samples move the payoff by exactly 100
		a := AnalyzeWith([]models.OptionLeg{stock(models.Long, 10, 1)}, CurveOptions{}.WithRange(0, 20))
		assert.Equal(t, 100.0, a.PayoffData[5].Payoff-a.PayoffData[0].Payoff)
		assert.Equal(t, models.Finite(1000), a.MaxProfit)
		assert.Equal(t, models.Finite(1000), a.MaxLoss)
	})

	t.Run("edge change just past the tolerance is unbounded", func(t *testing.T) {
		a := AnalyzeWith([]models.OptionLeg{stock(models.Long, 10, 1)}, CurveOptions{}.WithRange(0, 20.2))
		assert.True(t, a.MaxProfit.Unbounded)
		assert.True(t, a.MaxLoss.Unbounded)
	})

	t.Run("idempotent", func(t *testing.T) {
		legs := []models.OptionLeg{call(models.Long, 101.5, 3.2), put(models.Short, 97.25, 1.1)}
		assert.Equal(t, Analyze(legs), Analyze(legs))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, round2(0.125))
	assert.Equal(t, -0.12, round2(-0.125))
	assert.Equal(t, 105.0, round2(104.999))
}

func TestSummarize(t *testing.T) {
	curve := []models.PayoffPoint{
		{Price: 0, Payoff: -100},
		{Price: 1, Payoff: 0},
		{Price: 2, Payoff: 100},
		{Price: 3, Payoff: 200},
	}

	s := Summarize(curve)
	assert.Equal(t, 50.0, s.Mean)
	assert.Equal(t, 50.0, s.Median)
	assert.InDelta(t, 111.8, s.StdDev, 0.01)
	assert.Equal(t, 0.5, s.ProfitableShare)

	assert.Equal(t, CurveStats{}, Summarize(nil))
}

func prices(curve []models.PayoffPoint) []float64 {
	out := make([]float64, len(curve))
	for i, p := range curve {
		out[i] = p.Price
	}
	return out
}

func TestCurveOptionsRange(t *testing.T) {
	legs := []models.OptionLeg{call(models.Long, 100, 5)}

	lo, hi := CurveOptions{}.Range(legs)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 150.0, hi)

	upper := 120.0
	lo, hi = CurveOptions{MaxPrice: &upper}.Range(legs)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 120.0, hi)

	lo, hi = CurveOptions{}.WithRange(80, 90).Range(legs)
	assert.Equal(t, 80.0, lo)
	assert.Equal(t, 90.0, hi)
}
