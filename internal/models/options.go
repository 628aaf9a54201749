package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ContractSize is the number of underlying shares per option contract.
const ContractSize = 100

// OptionType identifies what a leg holds.
type OptionType string

const (
	Call  OptionType = "call"
	Put   OptionType = "put"
	Stock OptionType = "stock"
)

// IsValid reports whether t is one of the known leg types.
func (t OptionType) IsValid() bool {
	switch t {
	case Call, Put, Stock:
		return true
	}
	return false
}

// PositionType is the direction of a leg.
type PositionType string

const (
	Long  PositionType = "long"
	Short PositionType = "short"
)

// IsValid reports whether p is long or short.
func (p PositionType) IsValid() bool {
	return p == Long || p == Short
}

// Sign returns +1 for long and -1 for anything else.
func (p PositionType) Sign() float64 {
	if p == Long {
		return 1
	}
	return -1
}

// OptionLeg represents one component of a multi-leg strategy.
// For stock legs Strike is the purchase price and Premium is ignored.
type OptionLeg struct {
	Type     OptionType   `json:"type" yaml:"type"`
	Position PositionType `json:"position" yaml:"position"`
	Strike   float64      `json:"strike" yaml:"strike"`
	Premium  float64      `json:"premium" yaml:"premium"`
	Quantity int          `json:"quantity" yaml:"quantity"`
}

// String renders the leg the way the CLI accepts it back.
func (l OptionLeg) String() string {
	if l.Type == Stock {
		return fmt.Sprintf("%s stock %g x%d", l.Position, l.Strike, l.Quantity)
	}
	return fmt.Sprintf("%s %s %g @%g x%d", l.Position, l.Type, l.Strike, l.Premium, l.Quantity)
}

// PayoffPoint is one sample of aggregate profit/loss.
type PayoffPoint struct {
	Price  float64 `json:"price" csv:"price"`
	Payoff float64 `json:"payoff" csv:"payoff"`
}

// unlimitedLabel is the wire form of an unbounded extreme.
const unlimitedLabel = "unlimited"

// Bound is either a finite non-negative amount or unbounded.
type Bound struct {
	Value     float64
	Unbounded bool
}

// Finite returns a bounded value.
func Finite(v float64) Bound {
	return Bound{Value: v}
}

// Unlimited returns the unbounded sentinel.
func Unlimited() Bound {
	return Bound{Unbounded: true}
}

func (b Bound) String() string {
	if b.Unbounded {
		return unlimitedLabel
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// MarshalJSON encodes the bound as a number or the string "unlimited".
func (b Bound) MarshalJSON() ([]byte, error) {
	if b.Unbounded {
		return json.Marshal(unlimitedLabel)
	}
	return json.Marshal(b.Value)
}

// UnmarshalJSON accepts a number or "unlimited".
func (b *Bound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != unlimitedLabel {
			return fmt.Errorf("invalid bound %q", s)
		}
		*b = Unlimited()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Finite(v)
	return nil
}

// StrategyAnalysis is the derived summary of a set of legs.
type StrategyAnalysis struct {
	Breakevens []float64     `json:"breakevens"`
	MaxProfit  Bound         `json:"maxProfit"`
	MaxLoss    Bound         `json:"maxLoss"`
	NetPremium float64       `json:"netPremium"`
	PayoffData []PayoffPoint `json:"payoffData"`
}

// IsCredit reports whether the position collects net premium.
func (a StrategyAnalysis) IsCredit() bool {
	return a.NetPremium >= 0
}
