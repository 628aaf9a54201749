// Package presets provides the named option strategies offered by the builder.
package presets

import (
	"strings"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// DefaultBasePrice is the underlying price presets are designed around.
const DefaultBasePrice = 100.0

// Preset is a named, ready-made set of legs.
type Preset struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Legs        []models.OptionLeg `json:"legs" yaml:"legs"`
}

// Key returns the normalised lookup key for the preset.
func (p Preset) Key() string {
	return normalize(p.Name)
}

// All returns every preset with strikes laid out around basePrice.
func All(basePrice float64) []Preset {
	b := basePrice
	return []Preset{
		{
			Name:        "Long Call",
			Description: "Bullish, unlimited upside",
			Legs:        LongCall(b, 5).Legs,
		},
		{
			Name:        "Long Put",
			Description: "Bearish, profit on decline",
			Legs:        LongPut(b, 5).Legs,
		},
		{
			Name:        "Covered Call",
			Description: "Income on existing stock",
			Legs:        CoveredCall(b, b+10, 3).Legs,
		},
		{
			Name:        "Long Straddle",
			Description: "Profit from volatility",
			Legs:        LongStraddle(b, 5, 5).Legs,
		},
		{
			Name:        "Short Straddle",
			Description: "Profit from stability",
			Legs:        ShortStraddle(b, 5, 5).Legs,
		},
		{
			Name:        "Long Strangle",
			Description: "Cheaper volatility bet",
			Legs:        LongStrangle(b-10, b+10, 3, 3).Legs,
		},
		{
			Name:        "Bull Call Spread",
			Description: "Limited risk bullish",
			Legs:        BullCallSpread(b, b+10, 5, 2).Legs,
		},
		{
			Name:        "Bear Put Spread",
			Description: "Limited risk bearish",
			Legs:        BearPutSpread(b, b-10, 5, 2).Legs,
		},
		{
			Name:        "Iron Condor",
			Description: "Range-bound profit",
			Legs:        IronCondor(b-20, b-10, b+10, b+20, 1, 2.5, 2.5, 1).Legs,
		},
		{
			Name:        "Iron Butterfly",
			Description: "Pinpoint stability bet",
			Legs:        IronButterfly(b-10, b, b+10, 2, 5, 5, 2).Legs,
		},
	}
}

// Find looks a preset up by name, ignoring case, spaces, dashes and underscores.
func Find(name string, basePrice float64) (Preset, error) {
	key := normalize(name)
	for _, p := range All(basePrice) {
		if p.Key() == key {
			return p, nil
		}
	}
	return Preset{}, apperrors.Wrapf(apperrors.ErrPresetNotFound, "%q", name)
}

// Names lists the preset names in display order.
func Names() []string {
	all := All(DefaultBasePrice)
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// Rebase shifts every strike so that legs designed around DefaultBasePrice sit
// around basePrice instead. The input slice is not modified.
func Rebase(legs []models.OptionLeg, basePrice float64) []models.OptionLeg {
	out := make([]models.OptionLeg, len(legs))
	for i, leg := range legs {
		leg.Strike = leg.Strike - DefaultBasePrice + basePrice
		out[i] = leg
	}
	return out
}

func normalize(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}
