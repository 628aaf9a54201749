package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/export"
	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/payoff"
)

// curveFlags holds the sampling window flags.
type curveFlags struct {
	min, max float64
	samples  int
	csv      string
	chart    bool
	table    bool
}

func (f *curveFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.min, "min", 0, "lowest underlying price to sample")
	cmd.Flags().Float64Var(&f.max, "max", 0, "highest underlying price to sample")
	cmd.Flags().IntVar(&f.samples, "samples", 0, "number of sampling intervals (default from config)")
	cmd.Flags().StringVar(&f.csv, "csv", "", "write the payoff curve to a CSV file")
	cmd.Flags().BoolVar(&f.chart, "chart", false, "draw an ASCII payoff chart")
	cmd.Flags().BoolVar(&f.table, "table", false, "print every sampled point")
}

func (f *curveFlags) options(cmd *cobra.Command, defaultSamples int, legs []models.OptionLeg) (payoff.CurveOptions, error) {
	opts := payoff.CurveOptions{SampleCount: defaultSamples}
	if cmd.Flags().Changed("samples") {
		if f.samples < 1 {
			return opts, apperrors.NewValidationError("samples", f.samples, "must be >= 1")
		}
		opts.SampleCount = f.samples
	}
	if cmd.Flags().Changed("min") {
		if math.IsNaN(f.min) || math.IsInf(f.min, 0) || f.min < 0 {
			return opts, apperrors.NewValidationError("min", f.min, "must be >= 0")
		}
		lo := f.min
		opts.MinPrice = &lo
	}
	if cmd.Flags().Changed("max") {
		if math.IsNaN(f.max) || math.IsInf(f.max, 0) {
			return opts, apperrors.NewValidationError("max", f.max, "must be a finite number")
		}
		hi := f.max
		opts.MaxPrice = &hi
	}
	if lo, hi := opts.Range(legs); hi <= lo {
		if opts.MaxPrice != nil {
			return opts, apperrors.NewValidationError("max", hi, fmt.Sprintf("must be greater than the window minimum %s", FormatPrice(lo)))
		}
		return opts, apperrors.NewValidationError("min", lo, fmt.Sprintf("must be less than the window maximum %s", FormatPrice(hi)))
	}
	return opts, nil
}

// analysisResult is the JSON form of an analysis.
type analysisResult struct {
	Name string             `json:"name"`
	Legs []models.OptionLeg `json:"legs"`
	models.StrategyAnalysis
	Stats payoff.CurveStats `json:"stats"`
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		in    legInput
		curve curveFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the expiration payoff of a strategy",
		Long: `Compute the expiration-date payoff of a multi-leg strategy: net premium,
breakevens, max profit and max loss over a sampled range of underlying prices.`,
		Example: `  optionlab analyze --leg "long call 100 5"
  optionlab analyze --leg "long stock 100" --leg "short call 110 3" --chart
  optionlab analyze --preset iron-condor --base 250 --json
  optionlab analyze --file straddle.yaml --min 80 --max 120 --samples 40 --csv curve.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, legs, err := in.resolve(cmd, app.Config.Analysis.DefaultBase)
			if err != nil {
				return err
			}
			return app.runAnalysis(cmd, &curve, name, legs)
		},
	}

	in.addFlags(cmd)
	curve.addFlags(cmd)
	return cmd
}

// runAnalysis analyses legs and prints the result in the requested form.
func (a *App) runAnalysis(cmd *cobra.Command, curve *curveFlags, name string, legs []models.OptionLeg) error {
	output := a.output(cmd)

	opts, err := curve.options(cmd, a.Config.Analysis.Samples, legs)
	if err != nil {
		return err
	}

	analysis := payoff.AnalyzeWith(legs, opts)
	logging.LogAnalysis(logging.WithStrategy(a.Logger, name), len(legs), len(analysis.PayoffData), len(analysis.Breakevens), analysis.NetPremium)

	if curve.csv != "" {
		if err := export.WriteCSVFile(curve.csv, analysis.PayoffData); err != nil {
			return err
		}
	}

	result := analysisResult{
		Name:             name,
		Legs:             legs,
		StrategyAnalysis: analysis,
		Stats:            payoff.Summarize(analysis.PayoffData),
	}
	if output.IsJSON() {
		return output.JSON(result)
	}

	printAnalysis(output, result)
	if curve.chart {
		output.Println()
		for _, line := range RenderChart(analysis.PayoffData, defaultChartWidth, defaultChartHeight) {
			output.Println(line)
		}
	}
	if curve.table {
		output.Println()
		printCurve(output, analysis.PayoffData)
	}
	if curve.csv != "" {
		output.Println()
		output.Success("✓ Payoff curve written to %s", curve.csv)
	}
	return nil
}

func printLegs(output *Output, legs []models.OptionLeg) {
	table := output.Table("#", "Leg")
	for i, leg := range legs {
		table.Append([]string{strconv.Itoa(i + 1), FormatLeg(leg)})
	}
	table.Render()
}

func printAnalysis(output *Output, r analysisResult) {
	output.Bold("%s", r.Name)
	output.Println()
	printLegs(output, r.Legs)
	output.Println()

	kind := "debit"
	if r.IsCredit() {
		kind = "credit"
	}
	output.Printf("  Net Premium:  %s (%s)\n", output.PnL(r.NetPremium), kind)
	output.Printf("  Max Profit:   %s\n", output.Bound(r.MaxProfit, false))
	output.Printf("  Max Loss:     %s\n", output.Bound(r.MaxLoss, true))
	output.Printf("  Breakevens:   %s\n", FormatPrices(r.Breakevens))

	if n := len(r.PayoffData); n > 0 {
		output.Println()
		output.Dim("Window %s – %s (%d points)", FormatPrice(r.PayoffData[0].Price), FormatPrice(r.PayoffData[n-1].Price), n)
		output.Printf("  Mean Payoff:  %s\n", output.PnL(r.Stats.Mean))
		output.Printf("  Median:       %s\n", output.PnL(r.Stats.Median))
		output.Printf("  Std Dev:      %s\n", output.Money(r.Stats.StdDev))
		output.Printf("  Profitable:   %.0f%% of sampled prices\n", r.Stats.ProfitableShare*100)
	}
}

func printCurve(output *Output, curve []models.PayoffPoint) {
	table := output.Table("Price", "Payoff")
	for _, p := range curve {
		table.Append([]string{FormatPrice(p.Price), output.PnL(p.Payoff)})
	}
	table.Render()
}
