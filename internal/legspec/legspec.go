// Package legspec turns user input into option legs.
//
// Legs come either from short strings on the command line, for example
// "long call 100 5" or "sell pe 95 @2.5 x3", or from YAML/JSON files. Unlike the
// payoff engine, this layer rejects malformed input.
package legspec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

var positionAliases = map[string]models.PositionType{
	"long":  models.Long,
	"buy":   models.Long,
	"short": models.Short,
	"sell":  models.Short,
}

var typeAliases = map[string]models.OptionType{
	"call":  models.Call,
	"c":     models.Call,
	"ce":    models.Call,
	"put":   models.Put,
	"p":     models.Put,
	"pe":    models.Put,
	"stock": models.Stock,
	"s":     models.Stock,
}

// Parse reads a single leg of the form
//
//	<long|short|buy|sell> <call|put|stock> <strike> [premium] [xQTY]
//
// Premium defaults to 0 and quantity to 1. A premium may be written as "@5".
func Parse(spec string) (models.OptionLeg, error) {
	fields := strings.FieldsFunc(strings.ToLower(spec), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) < 3 || len(fields) > 5 {
		return models.OptionLeg{}, apperrors.NewValidationError("leg", spec,
			"expected '<long|short> <call|put|stock> <strike> [premium] [xQTY]'")
	}

	pos, ok := positionAliases[fields[0]]
	if !ok {
		return models.OptionLeg{}, apperrors.NewValidationError("position", fields[0], "must be long, short, buy or sell")
	}
	typ, ok := typeAliases[fields[1]]
	if !ok {
		return models.OptionLeg{}, apperrors.NewValidationError("type", fields[1], "must be call, put or stock")
	}
	strike, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return models.OptionLeg{}, apperrors.NewValidationError("strike", fields[2], "not a number")
	}

	leg := models.OptionLeg{Type: typ, Position: pos, Strike: strike, Quantity: 1}

	rest := fields[3:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "x") {
		premium, err := strconv.ParseFloat(strings.TrimPrefix(rest[0], "@"), 64)
		if err != nil {
			return models.OptionLeg{}, apperrors.NewValidationError("premium", rest[0], "not a number")
		}
		leg.Premium = premium
		rest = rest[1:]
	}
	if len(rest) > 1 {
		return models.OptionLeg{}, apperrors.NewValidationError("leg", spec, "too many fields")
	}
	if len(rest) == 1 {
		qty, err := strconv.Atoi(strings.TrimPrefix(rest[0], "x"))
		if err != nil {
			return models.OptionLeg{}, apperrors.NewValidationError("quantity", rest[0], "not an integer")
		}
		leg.Quantity = qty
	}

	return leg, nil
}

// ParseAll parses every spec, reporting the position of the first bad one.
func ParseAll(specs []string) ([]models.OptionLeg, error) {
	legs := make([]models.OptionLeg, 0, len(specs))
	for i, s := range specs {
		leg, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// Validate enforces the input rules the payoff engine does not check.
func Validate(legs []models.OptionLeg) error {
	if len(legs) == 0 {
		return apperrors.NewValidationError("legs", 0, "at least one leg is required")
	}

	for i, leg := range legs {
		field := func(name string) string { return fmt.Sprintf("legs[%d].%s", i, name) }

		if !leg.Type.IsValid() {
			return apperrors.NewValidationError(field("type"), leg.Type, "must be call, put or stock")
		}
		if !leg.Position.IsValid() {
			return apperrors.NewValidationError(field("position"), leg.Position, "must be long or short")
		}
		if !finite(leg.Strike) {
			return apperrors.NewValidationError(field("strike"), leg.Strike, "must be a finite number")
		}
		if !finite(leg.Premium) {
			return apperrors.NewValidationError(field("premium"), leg.Premium, "must be a finite number")
		}
		if leg.Strike < 0 {
			return apperrors.NewValidationError(field("strike"), leg.Strike, "must be >= 0")
		}
		if leg.Premium < 0 {
			return apperrors.NewValidationError(field("premium"), leg.Premium, "must be >= 0")
		}
		if leg.Type == models.Stock && leg.Premium != 0 {
			return apperrors.NewValidationError(field("premium"), leg.Premium, "stock legs carry no premium")
		}
		if leg.Quantity < 1 {
			return apperrors.NewValidationError(field("quantity"), leg.Quantity, "must be >= 1")
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
