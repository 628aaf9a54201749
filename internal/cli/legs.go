package cli

import (
	"github.com/spf13/cobra"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/legspec"
	"optionlab/internal/models"
	"optionlab/internal/presets"
)

// legInput collects the flags every command that takes a strategy shares.
type legInput struct {
	legs   []string
	file   string
	preset string
	base   float64
}

func (in *legInput) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&in.legs, "leg", "l", nil, `leg as "long|short call|put|stock STRIKE [PREMIUM] [xQTY]" (repeatable)`)
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "YAML or JSON file with legs")
	cmd.Flags().StringVarP(&in.preset, "preset", "p", "", "preset strategy name (see 'optionlab presets')")
	cmd.Flags().Float64Var(&in.base, "base", 0, "underlying price to lay strikes around; presets and files are designed around 100")
}

// resolve returns the strategy name and validated legs described by the flags.
func (in *legInput) resolve(cmd *cobra.Command, defaultBase float64) (string, []models.OptionLeg, error) {
	sources := 0
	for _, set := range []bool{len(in.legs) > 0, in.file != "", in.preset != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return "", nil, apperrors.NewValidationError("legs", "", "provide --leg, --file or --preset")
	case sources > 1:
		return "", nil, apperrors.NewValidationError("legs", "", "--leg, --file and --preset are mutually exclusive")
	}

	rebase := cmd.Flags().Changed("base")
	if rebase && in.base <= 0 {
		return "", nil, apperrors.NewValidationError("base", in.base, "must be positive")
	}

	var (
		name string
		legs []models.OptionLeg
	)
	switch {
	case in.preset != "":
		base := defaultBase
		if rebase {
			base = in.base
		}
		if base <= 0 {
			base = presets.DefaultBasePrice
		}
		p, err := presets.Find(in.preset, base)
		if err != nil {
			return "", nil, err
		}
		return p.Name, p.Legs, nil

	case in.file != "":
		doc, err := legspec.LoadFile(in.file)
		if err != nil {
			return "", nil, err
		}
		name, legs = doc.Name, doc.Legs

	default:
		parsed, err := legspec.ParseAll(in.legs)
		if err != nil {
			return "", nil, err
		}
		name, legs = "Custom Strategy", parsed
	}

	if rebase {
		legs = presets.Rebase(legs, in.base)
	}
	if err := legspec.Validate(legs); err != nil {
		return "", nil, err
	}
	return name, legs, nil
}
