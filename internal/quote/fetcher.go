package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/resilience"
	"optionlab/pkg/utils"
)

// FetcherConfig controls caching, retries and timeouts around a Provider.
type FetcherConfig struct {
	CacheTTL time.Duration
	Timeout  time.Duration
	Retry    utils.RetryConfig
	Breaker  resilience.CircuitBreakerConfig
}

// DefaultFetcherConfig returns the settings used when nothing is configured.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		CacheTTL: 30 * time.Second,
		Timeout:  10 * time.Second,
		Retry:    utils.DefaultRetryConfig(),
		Breaker:  resilience.DefaultCircuitBreakerConfig(),
	}
}

// Fetcher serves quotes from the cache, falling back to the provider behind a
// circuit breaker and retries.
type Fetcher struct {
	provider Provider
	cache    Cache
	breaker  *resilience.CircuitBreaker
	cfg      FetcherConfig
	logger   zerolog.Logger
}

// NewFetcher wires a provider and cache together. A nil cache disables caching.
func NewFetcher(provider Provider, cache Cache, cfg FetcherConfig, logger zerolog.Logger) *Fetcher {
	cfg.Retry.Retryable = retryable
	cfg.Breaker.IsFailure = countsAgainstProvider

	f := &Fetcher{
		provider: provider,
		cache:    cache,
		breaker:  resilience.NewCircuitBreaker(provider.Name(), cfg.Breaker),
		cfg:      cfg,
		logger:   logging.WithOperation(logger, "quote"),
	}
	f.cfg.Retry.OnRetry = func(attempt int, delay time.Duration, err error) {
		f.logger.Debug().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("Retrying quote")
	}
	return f
}

// Source returns the provider name.
func (f *Fetcher) Source() string { return f.provider.Name() }

// Breaker exposes the circuit breaker for health reporting.
func (f *Fetcher) Breaker() *resilience.CircuitBreaker { return f.breaker }

// Fetch returns the latest quote for symbol.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol", symbol, "symbol is required")
	}
	log := logging.WithSymbol(f.logger, symbol)

	if f.cache != nil {
		q, ok, err := f.cache.Get(ctx, symbol)
		if err != nil {
			log.Warn().Err(err).Msg("Quote cache read failed")
		} else if ok {
			logging.LogQuote(log, symbol, q.Source, q.Price, true, nil)
			return q, nil
		}
	}

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	q, err := resilience.ExecuteWithResult(ctx, f.breaker, func(ctx context.Context) (*models.Quote, error) {
		return utils.RetryWithResult(ctx, f.cfg.Retry, func() (*models.Quote, error) {
			return f.provider.Quote(ctx, symbol)
		})
	})
	if err != nil {
		logging.LogQuote(log, symbol, f.provider.Name(), 0, false, err)
		return nil, f.classify(symbol, err)
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, q, f.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Msg("Quote cache write failed")
		}
	}
	logging.LogQuote(log, symbol, q.Source, q.Price, false, nil)
	return q, nil
}

// classify makes sure every failure other than a bad symbol or input matches
// ErrQuoteUnavailable.
func (f *Fetcher) classify(symbol string, err error) error {
	if !countsAgainstProvider(err) {
		return err
	}
	if errors.Is(err, apperrors.ErrQuoteUnavailable) {
		return err
	}
	return apperrors.NewQuoteError(f.provider.Name(), symbol, fmt.Errorf("%w: %w", apperrors.ErrQuoteUnavailable, err))
}

// Close releases the cache.
func (f *Fetcher) Close() error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Close()
}
