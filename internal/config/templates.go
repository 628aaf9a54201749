package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# optionlab configuration

[analysis]
# Number of intervals sampled across the price range (0 = engine default of 100)
samples = 100
# Underlying price presets are laid out around
default_base = 100.0

[store]
# SQLite database for saved strategies (empty = <config dir>/strategies.db)
path = ""

[quote]
# Quote provider: "finnhub", "kite" or "none"
provider = "finnhub"
# Exchange prefix for kite instruments
exchange = "NSE"
# Per-request timeout
timeout = "5s"
# How long a fetched quote is reused
cache_ttl = "30s"
# Optional Redis cache, e.g. "redis://localhost:6379/0" (empty = in-memory)
redis_url = ""
# Attempts per quote before giving up
retry_attempts = 3

[server]
addr = "127.0.0.1:5000"
read_timeout = "10s"
write_timeout = "30s"

[log]
# debug, info, warn, error
level = "info"
# Mirror logs to stderr
console = false
# Write rotating log file under <config dir>/logs
file = true
max_size_mb = 20
max_backups = 3
max_age_days = 14

[ui]
# Enable colored output
color_enabled = true
# Prefix used when printing money amounts
currency_symbol = "$"
`

const credentialsTemplate = `# optionlab credentials
# WARNING: Keep this file secure! Do not commit to version control.

[finnhub]
api_key = ""

[kite]
api_key = ""
access_token = ""

[openai]
api_key = ""
model = "gpt-4o-mini"
`

func writeTemplate(configDir, file, template string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, file)
	if err := os.WriteFile(path, []byte(template), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", file, err)
	}

	return nil
}
