package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"optionlab/internal/config"
	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/resilience"
	"optionlab/pkg/utils"
)

func TestFinnhubProvider(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		gotQuery = map[string]string{"symbol": r.URL.Query().Get("symbol"), "token": r.URL.Query().Get("token")}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"c":189.5,"d":-1.25,"dp":-0.65,"h":191,"l":188,"o":190,"pc":190.75,"t":1700000000}`))
		case "DENIED":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid API key"}`))
		case "BROKEN":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
		}
	}))
	defer srv.Close()

	p, err := NewFinnhubProvider(FinnhubConfig{APIKey: "secret", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	q, err := p.Quote(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"symbol": "AAPL", "token": "secret"}, gotQuery)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 189.5, q.Price)
	assert.Equal(t, -1.25, q.Change)
	assert.Equal(t, "finnhub", q.Source)

	_, err = p.Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)

	_, err = p.Quote(context.Background(), "DENIED")
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)

	_, err = p.Quote(context.Background(), "BROKEN")
	require.Error(t, err)
	assert.True(t, retryable(err))
}

func TestFinnhubRequiresKey(t *testing.T) {
	_, err := NewFinnhubProvider(FinnhubConfig{})
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

type fakeKite struct {
	quotes kiteconnect.Quote
	err    error
	asked  []string
}

func (f *fakeKite) GetQuote(instruments ...string) (kiteconnect.Quote, error) {
	f.asked = append(f.asked, instruments...)
	return f.quotes, f.err
}

func TestKiteProvider(t *testing.T) {
	fake := &fakeKite{quotes: kiteconnect.Quote{}}
	q := fake.quotes
	entry := q["NSE:INFY"]
	entry.LastPrice = 1520.4
	entry.NetChange = 12.5
	q["NSE:INFY"] = entry

	p := &KiteProvider{client: fake, exchange: models.NSE, now: time.Now}

	got, err := p.Quote(context.Background(), "infy")
	require.NoError(t, err)
	assert.Equal(t, []string{"NSE:INFY"}, fake.asked)
	assert.Equal(t, 1520.4, got.Price)
	assert.Equal(t, 12.5, got.Change)
	assert.Equal(t, "kite", got.Source)

	_, err = p.Quote(context.Background(), "BSE:TCS")
	assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
	assert.Equal(t, "BSE:TCS", fake.asked[1])

	fake.err = errors.New("token expired")
	_, err = p.Quote(context.Background(), "INFY")
	assert.ErrorContains(t, err, "token expired")
}

func TestNewKiteProviderRequiresToken(t *testing.T) {
	_, err := NewKiteProvider(KiteConfig{APIKey: "k"})
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &models.Quote{Symbol: "AAPL", Price: 10}, time.Minute))

	q, ok, err := c.Get(ctx, "aapl")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10.0, q.Price)

	// returned quotes are copies
	q.Price = 99
	q2, _, _ := c.Get(ctx, "AAPL")
	assert.Equal(t, 10.0, q2.Price)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "AAPL")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, &models.Quote{Symbol: "MSFT"}, 0))
	_, ok, _ = c.Get(ctx, "MSFT")
	assert.False(t, ok)
}

func TestRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)
}

type fakeProvider struct {
	mu    sync.Mutex
	calls int
	fail  int // number of leading calls that fail
	err   error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.fail {
		return nil, p.err
	}
	return &models.Quote{Symbol: symbol, Price: 101.25, Source: "fake", FetchedAt: time.Now()}, nil
}

func testFetcherConfig() FetcherConfig {
	return FetcherConfig{
		CacheTTL: time.Minute,
		Timeout:  time.Second,
		Retry:    utils.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1},
		Breaker:  resilience.CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour},
	}
}

func TestFetcherCachesQuotes(t *testing.T) {
	p := &fakeProvider{}
	f := NewFetcher(p, NewMemoryCache(), testFetcherConfig(), zerolog.Nop())

	q, err := f.Fetch(context.Background(), "spy")
	require.NoError(t, err)
	assert.Equal(t, "SPY", q.Symbol)

	_, err = f.Fetch(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "fake", f.Source())
}

func TestFetcherRetriesTransientErrors(t *testing.T) {
	p := &fakeProvider{fail: 2, err: errors.New("502")}
	f := NewFetcher(p, nil, testFetcherConfig(), zerolog.Nop())

	q, err := f.Fetch(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, 101.25, q.Price)
	assert.Equal(t, 3, p.calls)
}

func TestFetcherDoesNotRetryUnknownSymbol(t *testing.T) {
	p := &fakeProvider{fail: 10, err: apperrors.NewQuoteError("fake", "ZZZ", apperrors.ErrSymbolNotFound)}
	f := NewFetcher(p, nil, testFetcherConfig(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "ZZZ")
		assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrQuoteUnavailable)
	}
	assert.Equal(t, 3, p.calls)
	assert.Equal(t, resilience.CircuitClosed, f.Breaker().State())
}

func TestFetcherOpensCircuit(t *testing.T) {
	p := &fakeProvider{fail: 100, err: errors.New("down")}
	f := NewFetcher(p, nil, testFetcherConfig(), zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), "SPY")
		assert.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)
	}
	assert.Equal(t, resilience.CircuitOpen, f.Breaker().State())

	calls := p.calls
	_, err := f.Fetch(context.Background(), "SPY")
	assert.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, calls, p.calls)
}

func TestFetcherRejectsEmptySymbol(t *testing.T) {
	f := NewFetcher(&fakeProvider{}, nil, testFetcherConfig(), zerolog.Nop())
	_, err := f.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{Quote: config.QuoteConfig{Provider: "none"}}
	_, err := FromConfig(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)

	cfg.Quote.Provider = "finnhub"
	_, err = FromConfig(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)

	cfg.Credentials.Finnhub.APIKey = "k"
	cfg.Quote.CacheTTL = 5 * time.Second
	cfg.Quote.RetryAttempts = 2
	f, err := FromConfig(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "finnhub", f.Source())
	assert.Equal(t, 5*time.Second, f.cfg.CacheTTL)
	assert.Equal(t, 2, f.cfg.Retry.MaxAttempts)
	assert.NoError(t, f.Close())
}
