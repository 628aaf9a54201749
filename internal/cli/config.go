package cli

import (
	"github.com/spf13/cobra"

	"optionlab/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration (credentials are masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			view := newConfigView(app.Config)
			if output.IsJSON() {
				return output.JSON(view)
			}
			showConfig(output, view)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			dir := app.Config.Dir
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

// configView is the printable form of the configuration.
type configView struct {
	Dir      string                `json:"dir"`
	Analysis config.AnalysisConfig `json:"analysis"`
	Store    config.StoreConfig    `json:"store"`
	Quote    config.QuoteConfig    `json:"quote"`
	Server   config.ServerConfig   `json:"server"`
	Log      config.LogSettings    `json:"log"`
	UI       config.UIConfig       `json:"ui"`
	Keys     map[string]string     `json:"credentials"`
}

func newConfigView(cfg *config.Config) configView {
	return configView{
		Dir:      cfg.Dir,
		Analysis: cfg.Analysis,
		Store:    cfg.Store,
		Quote:    cfg.Quote,
		Server:   cfg.Server,
		Log:      cfg.Log,
		UI:       cfg.UI,
		Keys: map[string]string{
			"finnhub":           mask(cfg.Credentials.Finnhub.APIKey),
			"kite_api_key":      mask(cfg.Credentials.Kite.APIKey),
			"kite_access_token": mask(cfg.Credentials.Kite.AccessToken),
			"openai":            mask(cfg.Credentials.OpenAI.APIKey),
		},
	}
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 4:
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func showConfig(output *Output, v configView) {
	output.Bold("Analysis")
	output.Printf("  Samples:         %d\n", v.Analysis.Samples)
	output.Printf("  Default Base:    %s\n", FormatPrice(v.Analysis.DefaultBase))
	output.Println()

	output.Bold("Store")
	output.Printf("  Path:            %s\n", v.Store.Path)
	output.Println()

	output.Bold("Quotes")
	output.Printf("  Provider:        %s\n", v.Quote.Provider)
	output.Printf("  Exchange:        %s\n", v.Quote.Exchange)
	output.Printf("  Timeout:         %s\n", v.Quote.Timeout)
	output.Printf("  Cache TTL:       %s\n", v.Quote.CacheTTL)
	output.Printf("  Retry Attempts:  %d\n", v.Quote.RetryAttempts)
	if v.Quote.RedisURL != "" {
		output.Printf("  Redis:           %s\n", v.Quote.RedisURL)
	}
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", v.Server.Addr)
	output.Println()

	output.Bold("Credentials")
	output.Printf("  Finnhub:         %s\n", v.Keys["finnhub"])
	output.Printf("  Kite API Key:    %s\n", v.Keys["kite_api_key"])
	output.Printf("  Kite Token:      %s\n", v.Keys["kite_access_token"])
	output.Printf("  OpenAI:          %s\n", v.Keys["openai"])
}
