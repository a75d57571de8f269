package prices

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksage/internal/frame"
)

type scriptedProvider struct {
	mu     sync.Mutex
	calls  map[string]int
	tables map[string]*frame.Frame
	fail   map[string]error
	active int32
	peak   int32
}

func (p *scriptedProvider) Name() string { return "SCRIPTED" }

func (p *scriptedProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	n := atomic.AddInt32(&p.active, 1)
	defer atomic.AddInt32(&p.active, -1)
	for {
		peak := atomic.LoadInt32(&p.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&p.peak, peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[ticker]++
	p.mu.Unlock()

	if err := p.fail[ticker]; err != nil {
		return nil, err
	}
	if t, ok := p.tables[ticker]; ok {
		return t, nil
	}
	return &frame.Frame{}, nil
}

func TestFetcherMergesInTickerOrderAndSkipsFailures(t *testing.T) {
	p := &scriptedProvider{
		tables: map[string]*frame.Frame{
			"BBB": flatPrices("BBB", "2024-01-01", 20, 21),
			"AAA": flatPrices("AAA", "2024-01-01", 10, 11, 12),
		},
		fail: map[string]error{"ERR": errors.New("upstream down")},
	}
	f := NewFetcher(p, WithConcurrency(2))

	out, err := f.Fetch(context.Background(), []string{"BBB", "ERR", "EMPTY", "AAA"}, day("2024-01-01"), day("2024-01-10"))
	require.NoError(t, err)
	require.Equal(t, 5, out.Len())
	assert.Equal(t, "BBB", out.Col("ticker")[0].Str())
	assert.Equal(t, "AAA", out.Col("ticker")[2].Str())
	assert.Equal(t, Columns, out.Names())
}

func TestFetcherBoundsConcurrency(t *testing.T) {
	p := &scriptedProvider{}
	tickers := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	out, err := NewFetcher(p, WithConcurrency(3)).Fetch(context.Background(), tickers, day("2024-01-01"), day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, Columns, out.Names())
	assert.LessOrEqual(t, atomic.LoadInt32(&p.peak), int32(3))
	assert.Len(t, p.calls, len(tickers))
}

func TestFetcherHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(&scriptedProvider{}).Fetch(ctx, []string{"A"}, day("2024-01-01"), day("2024-01-10"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcherRateLimit(t *testing.T) {
	p := &scriptedProvider{}
	start := time.Now()
	_, err := NewFetcher(p, WithConcurrency(4), WithRateLimit(20)).Fetch(context.Background(),
		[]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V"},
		day("2024-01-01"), day("2024-01-10"))
	require.NoError(t, err)
	// A burst of 20 passes immediately, the remaining two wait about 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestCachingProviderServesRepeatsFromCache(t *testing.T) {
	p := &scriptedProvider{tables: map[string]*frame.Frame{"AAA": flatPrices("AAA", "2024-01-01", 1, 2)}}
	c := NewCachingProvider(p, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f, err := c.History(ctx, "AAA", day("2024-01-01"), day("2024-01-10"))
		require.NoError(t, err)
		assert.Equal(t, 2, f.Len())
	}
	assert.Equal(t, 1, p.calls["AAA"])
	assert.Equal(t, "SCRIPTED", c.Name())
}

func TestHistoryCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newHistoryCache(time.Minute, func() time.Time { return now })
	c.set("k", frame.New("a"))

	_, ok := c.get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.get("k")
	assert.False(t, ok)
}
