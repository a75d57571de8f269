package prices

import (
	"context"
	"sync"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
	"stocksage/internal/logger"
)

// CachingProvider keeps recent History results so repeated runs over the same window, such
// as a threshold sweep, do not refetch.
type CachingProvider struct {
	next  interfaces.PriceProvider
	cache *historyCache
}

var _ interfaces.PriceProvider = (*CachingProvider)(nil)

func NewCachingProvider(next interfaces.PriceProvider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{next: next, cache: newHistoryCache(ttl, time.Now)}
}

func (p *CachingProvider) Name() string { return p.next.Name() }

func (p *CachingProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	key := ticker + "|" + frame.CivilDate(from).Format(frame.DateLayout) + "|" + frame.CivilDate(to).Format(frame.DateLayout)
	if f, ok := p.cache.get(key); ok {
		logger.Debug(ctx, "Price cache hit", "ticker", ticker)
		return f.Clone(), nil
	}
	f, err := p.next.History(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	if f != nil {
		p.cache.set(key, f.Clone())
	}
	return f, nil
}

type historyCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
	now  func() time.Time
}

type cacheEntry struct {
	table     *frame.Frame
	timestamp time.Time
}

func newHistoryCache(ttl time.Duration, now func() time.Time) *historyCache {
	return &historyCache{data: make(map[string]*cacheEntry), ttl: ttl, now: now}
}

func (c *historyCache) get(key string) (*frame.Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.table, true
}

func (c *historyCache) set(key string, f *frame.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.data {
		if now.Sub(e.timestamp) > c.ttl {
			delete(c.data, k)
		}
	}
	c.data[key] = &cacheEntry{table: f, timestamp: now}
}
