package quote

import (
	"context"
	"net/http"
	"strings"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// KiteConfig holds Kite Connect settings. The access token comes from a login
// done elsewhere; this provider never performs the login flow.
type KiteConfig struct {
	APIKey      string
	AccessToken string
	Exchange    models.Exchange
	Timeout     time.Duration
}

type kiteQuoter interface {
	GetQuote(instruments ...string) (kiteconnect.Quote, error)
}

// KiteProvider reads quotes from Zerodha Kite Connect.
type KiteProvider struct {
	client   kiteQuoter
	exchange models.Exchange
	now      func() time.Time
}

// NewKiteProvider creates a Kite provider.
func NewKiteProvider(cfg KiteConfig) (*KiteProvider, error) {
	if cfg.APIKey == "" || cfg.AccessToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid, "kite api key and access token are required")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = models.NSE
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := kiteconnect.New(cfg.APIKey)
	client.SetAccessToken(cfg.AccessToken)
	client.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})

	return &KiteProvider{client: client, exchange: cfg.Exchange, now: time.Now}, nil
}

// Name returns the provider name.
func (p *KiteProvider) Name() string { return "kite" }

// Quote fetches the last traded price. Symbols without an exchange prefix use
// the configured exchange.
func (p *KiteProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	instrument := symbol
	if !strings.Contains(symbol, ":") {
		instrument = p.exchange.Instrument(symbol)
	}

	type result struct {
		quotes kiteconnect.Quote
		err    error
	}
	done := make(chan result, 1)
	go func() {
		q, err := p.client.GetQuote(instrument)
		done <- result{q, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return nil, apperrors.NewQuoteError(p.Name(), symbol, ctx.Err())
	}
	if r.err != nil {
		return nil, apperrors.NewQuoteError(p.Name(), symbol, r.err)
	}

	q, ok := r.quotes[instrument]
	if !ok || q.LastPrice == 0 {
		return nil, apperrors.NewQuoteError(p.Name(), symbol, apperrors.ErrSymbolNotFound)
	}

	quote := &models.Quote{
		Symbol:    symbol,
		Price:     q.LastPrice,
		Change:    q.NetChange,
		Source:    p.Name(),
		FetchedAt: p.now(),
	}
	if q.OHLC.Close != 0 {
		quote.ChangePercent = q.NetChange / q.OHLC.Close * 100
	}
	return quote, nil
}
