// Package payoff computes expiration-date profit/loss for multi-leg option strategies.
//
// Everything in this package is a pure function of its arguments: no validation is
// performed and no errors are returned. Garbage input produces an arithmetically
// consistent curve rather than a failure.
package payoff

import (
	"math"

	"optionlab/internal/models"
)

// LegPayoff returns the profit/loss of a single leg at the given underlying price.
func LegPayoff(leg models.OptionLeg, underlyingPrice float64) float64 {
	sign := leg.Position.Sign()
	qty := float64(leg.Quantity) * models.ContractSize

	// Stock is linear in both directions
	if leg.Type == models.Stock {
		return (underlyingPrice - leg.Strike) * sign * qty
	}

	var intrinsic float64
	if leg.Type == models.Call {
		intrinsic = math.Max(0, underlyingPrice-leg.Strike)
	} else {
		intrinsic = math.Max(0, leg.Strike-underlyingPrice)
	}

	premium := leg.Premium
	if leg.Position == models.Long {
		premium = -premium
	}

	return (intrinsic*sign + premium) * qty
}

// StrategyPayoff sums LegPayoff over every leg. The result is not rounded.
func StrategyPayoff(legs []models.OptionLeg, underlyingPrice float64) float64 {
	var total float64
	for _, leg := range legs {
		total += LegPayoff(leg, underlyingPrice)
	}
	return total
}

// NetPremium returns the premium collected (positive) or paid (negative) across
// all option legs. Stock legs carry no premium.
func NetPremium(legs []models.OptionLeg) float64 {
	var total float64
	for _, leg := range legs {
		if leg.Type == models.Stock {
			continue
		}
		total += leg.Premium * float64(leg.Quantity) * models.ContractSize * -leg.Position.Sign()
	}
	return total
}

// round2 rounds half up to two decimals.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
