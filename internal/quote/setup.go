package quote

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"optionlab/internal/config"
	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// FromConfig builds the Fetcher described by cfg. It returns an error matching
// ErrQuoteUnavailable when quotes are switched off or not configured.
func FromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Fetcher, error) {
	var (
		provider Provider
		err      error
	)

	switch cfg.Quote.Provider {
	case "", "finnhub":
		if !cfg.HasFinnhub() {
			return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, "no finnhub api key configured (set FINNHUB_API_KEY)")
		}
		provider, err = NewFinnhubProvider(FinnhubConfig{
			APIKey:  cfg.Credentials.Finnhub.APIKey,
			Timeout: cfg.Quote.Timeout,
		})
	case "kite":
		provider, err = NewKiteProvider(KiteConfig{
			APIKey:      cfg.Credentials.Kite.APIKey,
			AccessToken: cfg.Credentials.Kite.AccessToken,
			Exchange:    models.Exchange(cfg.Quote.Exchange),
			Timeout:     cfg.Quote.Timeout,
		})
	default:
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, "quotes are disabled")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err.Error())
	}

	var cache Cache = NewMemoryCache()
	if cfg.Quote.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		rc, err := NewRedisCache(pingCtx, cfg.Quote.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using in-memory quote cache")
		} else {
			cache = rc
		}
	}

	fc := DefaultFetcherConfig()
	if cfg.Quote.CacheTTL > 0 {
		fc.CacheTTL = cfg.Quote.CacheTTL
	}
	if cfg.Quote.Timeout > 0 {
		// Room for every attempt plus backoff
		fc.Timeout = cfg.Quote.Timeout * time.Duration(cfg.Quote.RetryAttempts+1)
	}
	if cfg.Quote.RetryAttempts > 0 {
		fc.Retry.MaxAttempts = cfg.Quote.RetryAttempts
	}

	return NewFetcher(provider, cache, fc, logger), nil
}
