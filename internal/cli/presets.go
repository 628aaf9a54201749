package cli

import (
	"strings"

	"github.com/spf13/cobra"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/presets"
)

func newPresetsCmd(app *App) *cobra.Command {
	var base float64

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List preset strategies",
		Long:  "List the ready-made strategies with their legs laid out around a base price.",
		Example: `  optionlab presets
  optionlab presets --base 19500 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			if !cmd.Flags().Changed("base") {
				base = app.Config.Analysis.DefaultBase
			}
			if base <= 0 {
				if cmd.Flags().Changed("base") {
					return apperrors.NewValidationError("base", base, "must be positive")
				}
				base = presets.DefaultBasePrice
			}

			all := presets.All(base)
			if output.IsJSON() {
				return output.JSON(all)
			}

			output.Bold("Preset strategies around %s", FormatPrice(base))
			output.Println()
			table := output.Table("Name", "Legs", "Description")
			for _, p := range all {
				legs := make([]string, len(p.Legs))
				for i, leg := range p.Legs {
					legs[i] = FormatLeg(leg)
				}
				table.Append([]string{p.Name, strings.Join(legs, "\n"), p.Description})
			}
			table.Render()
			output.Println()
			output.Dim("Analyze one with: optionlab analyze --preset %q --base %s", strings.ToLower(strings.ReplaceAll(all[0].Name, " ", "-")), FormatPrice(base))
			return nil
		},
	}

	cmd.Flags().Float64Var(&base, "base", 0, "underlying price to lay strikes around (default from config)")
	return cmd
}
