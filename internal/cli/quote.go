package cli

import (
	"github.com/spf13/cobra"

	"optionlab/internal/quote"
)

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch the latest price of an underlying",
		Long: `Fetch the latest price of an underlying from the configured provider
(Finnhub or Kite). Use it as --base for presets.`,
		Example: `  optionlab quote AAPL
  optionlab quote INFY --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			fetcher, err := quote.FromConfig(cmd.Context(), app.Config, app.Logger)
			if err != nil {
				return err
			}
			defer fetcher.Close()

			q, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(q)
			}

			change := FormatPnL(q.Change, "")
			if q.Change < 0 {
				change = output.Red(change)
			} else {
				change = output.Green(change)
			}
			output.Printf("%s  %s  %s (%s)\n", output.BoldText(q.Symbol), FormatPrice(q.Price), change, FormatPercent(q.ChangePercent))
			output.Dim("Source: %s  at %s", q.Source, q.FetchedAt.Local().Format("15:04:05"))
			return nil
		},
	}
}
