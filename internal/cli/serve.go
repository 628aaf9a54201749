package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"optionlab/internal/quote"
	"optionlab/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the payoff engine, presets, saved strategies and quotes over HTTP.

Endpoints:
  GET    /api/health
  POST   /api/analyze
  GET    /api/presets?base=100
  GET    /api/strategies
  POST   /api/strategies
  GET    /api/strategies/{id}
  PUT    /api/strategies/{id}
  DELETE /api/strategies/{id}
  GET    /getprice?stock=SYMBOL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := server.Options{
				Samples:     app.Config.Analysis.Samples,
				DefaultBase: app.Config.Analysis.DefaultBase,
				Logger:      app.Logger,
			}

			if st, err := app.Store(); err != nil {
				app.Logger.Warn().Err(err).Msg("Strategy store unavailable, /api/strategies will answer 503")
				output.Warning("Strategy store unavailable: %v", err)
			} else {
				opts.Store = st
			}

			if fetcher, err := quote.FromConfig(ctx, app.Config, app.Logger); err != nil {
				app.Logger.Warn().Err(err).Msg("Quotes unavailable, /getprice will answer 503")
				output.Warning("Quotes unavailable: %v", err)
			} else {
				defer fetcher.Close()
				opts.Quotes = fetcher
			}

			if !cmd.Flags().Changed("addr") {
				addr = app.Config.Server.Addr
			}
			output.Info("Listening on http://%s", addr)

			return server.New(opts).ListenAndServe(ctx, server.HTTPConfig{
				Addr:         addr,
				ReadTimeout:  app.Config.Server.ReadTimeout,
				WriteTimeout: app.Config.Server.WriteTimeout,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:5000)")
	return cmd
}
