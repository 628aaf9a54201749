package cli

import (
	"github.com/spf13/cobra"

	"optionlab/internal/agents"
	apperrors "optionlab/internal/errors"
	"optionlab/internal/payoff"
)

func newExplainCmd(app *App) *cobra.Command {
	var in legInput

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Ask an LLM to explain a strategy",
		Long: `Analyze a strategy and ask the configured OpenAI model to explain the market
view it expresses and its risks. Requires an OpenAI API key.`,
		Example: `  optionlab explain --preset iron-butterfly
  optionlab explain --leg "short put 95 2" --leg "long put 90 0.8"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			if app.LLMClient == nil {
				return apperrors.Wrap(apperrors.ErrLLMUnavailable, "set OPENAI_API_KEY or credentials.toml [openai] api_key")
			}

			name, legs, err := in.resolve(cmd, app.Config.Analysis.DefaultBase)
			if err != nil {
				return err
			}
			analysis := payoff.AnalyzeWith(legs, payoff.CurveOptions{SampleCount: app.Config.Analysis.Samples})

			text, err := agents.NewReviewer(app.LLMClient, app.Logger).Review(cmd.Context(), name, legs, analysis)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"name":     name,
					"analysis": analysis,
					"review":   text,
				})
			}
			output.Bold("%s", name)
			output.Printf("  Max Profit: %s   Max Loss: %s   Breakevens: %s\n",
				output.Bound(analysis.MaxProfit, false), output.Bound(analysis.MaxLoss, true), FormatPrices(analysis.Breakevens))
			output.Println()
			output.Println(text)
			return nil
		},
	}

	in.addFlags(cmd)
	return cmd
}
