package quote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// DefaultFinnhubURL is the Finnhub REST API root.
const DefaultFinnhubURL = "https://finnhub.io/api/v1"

// FinnhubConfig holds Finnhub client settings.
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// FinnhubProvider reads quotes from the Finnhub /quote endpoint.
type FinnhubProvider struct {
	client *resty.Client
	apiKey string
	now    func() time.Time
}

// finnhubQuote is the subset of the /quote response we use.
type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	PrevClose     float64 `json:"pc"`
}

// NewFinnhubProvider creates a Finnhub provider.
func NewFinnhubProvider(cfg FinnhubConfig) (*FinnhubProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid, "finnhub api key is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFinnhubURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &FinnhubProvider{client: client, apiKey: cfg.APIKey, now: time.Now}, nil
}

// Name returns the provider name.
func (p *FinnhubProvider) Name() string { return "finnhub" }

// Quote fetches the latest price for symbol. Finnhub answers unknown symbols
// with an all-zero body, which is reported as ErrSymbolNotFound.
func (p *FinnhubProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var body finnhubQuote
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  p.apiKey,
		}).
		SetResult(&body).
		Get("/quote")
	if err != nil {
		return nil, apperrors.NewQuoteError(p.Name(), symbol, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, apperrors.NewQuoteError(p.Name(), symbol,
			apperrors.Wrapf(apperrors.ErrConfigInvalid, "finnhub rejected the api key (%d)", code))
	case resp.IsError():
		return nil, apperrors.NewQuoteError(p.Name(), symbol, fmt.Errorf("unexpected status %d", code))
	}

	if body.Current == 0 {
		return nil, apperrors.NewQuoteError(p.Name(), symbol, apperrors.ErrSymbolNotFound)
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         body.Current,
		Change:        body.Change,
		ChangePercent: body.ChangePercent,
		Source:        p.Name(),
		FetchedAt:     p.now(),
	}, nil
}
