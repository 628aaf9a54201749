package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/legspec"
	"optionlab/internal/payoff"
)

func newStrategyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "strategy",
		Aliases: []string{"strategies"},
		Short:   "Save, list and load named strategies",
		Long:    "Manage strategies kept in the local SQLite store.",
	}

	cmd.AddCommand(newStrategySaveCmd(app))
	cmd.AddCommand(newStrategyListCmd(app))
	cmd.AddCommand(newStrategyShowCmd(app))
	cmd.AddCommand(newStrategyAnalyzeCmd(app))
	cmd.AddCommand(newStrategyExportCmd(app))
	cmd.AddCommand(newStrategyDeleteCmd(app))
	return cmd
}

func newStrategySaveCmd(app *App) *cobra.Command {
	var in legInput

	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save a strategy",
		Long:  "Save a strategy. The name defaults to the preset or file name.",
		Example: `  optionlab strategy save "NIFTY straddle" --leg "long call 19500 120" --leg "long put 19500 110"
  optionlab strategy save --preset iron-condor --base 250`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			name, legs, err := in.resolve(cmd, app.Config.Analysis.DefaultBase)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				name = args[0]
			}

			st, err := app.Store()
			if err != nil {
				return err
			}
			saved, err := st.Save(cmd.Context(), name, legs)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(saved)
			}
			output.Success("✓ Saved %q (%d legs)", saved.Name, len(saved.Legs))
			output.Dim("ID: %s", saved.ID)
			return nil
		},
	}

	in.addFlags(cmd)
	return cmd
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			st, err := app.Store()
			if err != nil {
				return err
			}
			strategies, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(strategies)
			}
			if len(strategies) == 0 {
				output.Dim("No saved strategies. Save one with 'optionlab strategy save'.")
				return nil
			}

			table := output.Table("ID", "Name", "Legs", "Net Premium", "Updated")
			for _, s := range strategies {
				table.Append([]string{
					s.ID,
					TruncateString(s.Name, 40),
					strconv.Itoa(len(s.Legs)),
					output.PnL(payoff.NetPremium(s.Legs)),
					s.UpdatedAt.Local().Format("02-Jan-2006 15:04"),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			st, err := app.Store()
			if err != nil {
				return err
			}
			s, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Bold("%s", s.Name)
			output.Dim("ID: %s  Created: %s  Updated: %s", s.ID,
				s.CreatedAt.Local().Format("02-Jan-2006 15:04"), s.UpdatedAt.Local().Format("02-Jan-2006 15:04"))
			output.Println()
			printLegs(output, s.Legs)
			return nil
		},
	}
}

func newStrategyAnalyzeCmd(app *App) *cobra.Command {
	var curve curveFlags

	cmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Analyze a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Store()
			if err != nil {
				return err
			}
			s, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.runAnalysis(cmd, &curve, s.Name, s.Legs)
		},
	}

	curve.addFlags(cmd)
	return cmd
}

func newStrategyExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write a saved strategy to a YAML or JSON leg file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			st, err := app.Store()
			if err != nil {
				return err
			}
			s, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := legspec.WriteFile(args[1], legspec.Document{Name: s.Name, Legs: s.Legs}); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": s.ID, "file": args[1]})
			}
			output.Success("✓ Wrote %q to %s", s.Name, args[1])
			return nil
		},
	}
}

func newStrategyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved strategy",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			if args[0] == "" {
				return apperrors.NewValidationError("id", "", "id is required")
			}
			st, err := app.Store()
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"id": args[0], "deleted": true})
			}
			output.Success("✓ Deleted %s", args[0])
			return nil
		},
	}
}
