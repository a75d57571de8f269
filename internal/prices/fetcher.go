package prices

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
	"stocksage/internal/logger"
)

// Fetcher pulls history for many tickers in parallel and merges the normalized tables.
// All workers share one rate limiter.
type Fetcher struct {
	provider interfaces.PriceProvider
	limiter  *rate.Limiter
	workers  int
}

type FetcherOption func(*Fetcher)

// WithRateLimit caps provider calls per second; zero or less means unlimited.
func WithRateLimit(perSecond float64) FetcherOption {
	return func(f *Fetcher) {
		if perSecond <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

func NewFetcher(provider interfaces.PriceProvider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		workers:  4,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Provider names the underlying price source.
func (f *Fetcher) Provider() string { return f.provider.Name() }

// Fetch returns the canonical price table for tickers over [from, to]. A ticker whose
// fetch fails or returns nothing is logged and left out; only context cancellation is an
// error. The merged table lists tickers in the order given.
func (f *Fetcher) Fetch(ctx context.Context, tickers []string, from, to time.Time) (*frame.Frame, error) {
	results := make([]*frame.Frame, len(tickers))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := f.workers
	if workers > len(tickers) {
		workers = len(tickers)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = f.fetchOne(ctx, tickers[i], from, to)
			}
		}()
	}

	for i := range tickers {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	merged, err := frame.Concat(results...)
	if err != nil {
		return nil, err
	}
	if merged.Len() == 0 {
		return Empty(), nil
	}
	return merged, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, ticker string, from, to time.Time) *frame.Frame {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil
	}
	raw, err := f.provider.History(ctx, ticker, from, to)
	if err != nil {
		logger.Warn(ctx, "Price fetch failed, skipping ticker", "ticker", ticker, "provider", f.provider.Name(), "error", err)
		return nil
	}
	norm, err := Normalize(raw)
	if err != nil {
		logger.Warn(ctx, "Unusable price table, skipping ticker", "ticker", ticker, "provider", f.provider.Name(), "error", err)
		return nil
	}
	if norm.Empty() {
		logger.Warn(ctx, "No price data", "ticker", ticker, "provider", f.provider.Name())
		return nil
	}
	logger.Debug(ctx, "Prices fetched", "ticker", ticker, "rows", norm.Len())
	return norm
}
