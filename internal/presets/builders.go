package presets

import "optionlab/internal/models"

func leg(t models.OptionType, p models.PositionType, strike, premium float64) models.OptionLeg {
	return models.OptionLeg{Type: t, Position: p, Strike: strike, Premium: premium, Quantity: 1}
}

// LongCall buys one call.
func LongCall(strike, premium float64) Preset {
	return Preset{
		Name: "Long Call",
		Legs: []models.OptionLeg{leg(models.Call, models.Long, strike, premium)},
	}
}

// LongPut buys one put.
func LongPut(strike, premium float64) Preset {
	return Preset{
		Name: "Long Put",
		Legs: []models.OptionLeg{leg(models.Put, models.Long, strike, premium)},
	}
}

// ShortCall sells one call.
func ShortCall(strike, premium float64) Preset {
	return Preset{
		Name: "Short Call",
		Legs: []models.OptionLeg{leg(models.Call, models.Short, strike, premium)},
	}
}

// ShortPut sells one put.
func ShortPut(strike, premium float64) Preset {
	return Preset{
		Name: "Short Put",
		Legs: []models.OptionLeg{leg(models.Put, models.Short, strike, premium)},
	}
}

// CoveredCall holds 100 shares bought at stockPrice and sells a call against them.
func CoveredCall(stockPrice, callStrike, callPremium float64) Preset {
	return Preset{
		Name: "Covered Call",
		Legs: []models.OptionLeg{
			leg(models.Stock, models.Long, stockPrice, 0),
			leg(models.Call, models.Short, callStrike, callPremium),
		},
	}
}

// LongStraddle buys a call and a put at the same strike.
func LongStraddle(strike, callPremium, putPremium float64) Preset {
	return Preset{
		Name: "Long Straddle",
		Legs: []models.OptionLeg{
			leg(models.Call, models.Long, strike, callPremium),
			leg(models.Put, models.Long, strike, putPremium),
		},
	}
}

// ShortStraddle sells a call and a put at the same strike.
func ShortStraddle(strike, callPremium, putPremium float64) Preset {
	return Preset{
		Name: "Short Straddle",
		Legs: []models.OptionLeg{
			leg(models.Call, models.Short, strike, callPremium),
			leg(models.Put, models.Short, strike, putPremium),
		},
	}
}

// LongStrangle buys an OTM put and an OTM call.
func LongStrangle(putStrike, callStrike, putPremium, callPremium float64) Preset {
	return Preset{
		Name: "Long Strangle",
		Legs: []models.OptionLeg{
			leg(models.Put, models.Long, putStrike, putPremium),
			leg(models.Call, models.Long, callStrike, callPremium),
		},
	}
}

// ShortStrangle sells an OTM put and an OTM call.
func ShortStrangle(putStrike, callStrike, putPremium, callPremium float64) Preset {
	return Preset{
		Name: "Short Strangle",
		Legs: []models.OptionLeg{
			leg(models.Put, models.Short, putStrike, putPremium),
			leg(models.Call, models.Short, callStrike, callPremium),
		},
	}
}

// BullCallSpread buys the lower strike call and sells the upper.
func BullCallSpread(lowerStrike, upperStrike, longPremium, shortPremium float64) Preset {
	return Preset{
		Name: "Bull Call Spread",
		Legs: []models.OptionLeg{
			leg(models.Call, models.Long, lowerStrike, longPremium),
			leg(models.Call, models.Short, upperStrike, shortPremium),
		},
	}
}

// BearPutSpread buys the upper strike put and sells the lower.
func BearPutSpread(upperStrike, lowerStrike, longPremium, shortPremium float64) Preset {
	return Preset{
		Name: "Bear Put Spread",
		Legs: []models.OptionLeg{
			leg(models.Put, models.Long, upperStrike, longPremium),
			leg(models.Put, models.Short, lowerStrike, shortPremium),
		},
	}
}

// IronCondor combines a bull put spread and a bear call spread.
func IronCondor(
	putLongStrike, putShortStrike, callShortStrike, callLongStrike float64,
	putLongPremium, putShortPremium, callShortPremium, callLongPremium float64,
) Preset {
	return Preset{
		Name: "Iron Condor",
		Legs: []models.OptionLeg{
			leg(models.Put, models.Long, putLongStrike, putLongPremium),
			leg(models.Put, models.Short, putShortStrike, putShortPremium),
			leg(models.Call, models.Short, callShortStrike, callShortPremium),
			leg(models.Call, models.Long, callLongStrike, callLongPremium),
		},
	}
}

// IronButterfly sells the middle strike straddle and buys the wings.
func IronButterfly(
	lowerStrike, middleStrike, upperStrike float64,
	putLongPremium, putShortPremium, callShortPremium, callLongPremium float64,
) Preset {
	return Preset{
		Name: "Iron Butterfly",
		Legs: []models.OptionLeg{
			leg(models.Put, models.Long, lowerStrike, putLongPremium),
			leg(models.Put, models.Short, middleStrike, putShortPremium),
			leg(models.Call, models.Short, middleStrike, callShortPremium),
			leg(models.Call, models.Long, upperStrike, callLongPremium),
		},
	}
}
