package sentiment

import (
	"math"
	"sort"
	"strings"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
	"stocksage/internal/types"
)

// ScorerFunc adapts a plain function to interfaces.Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Compound(text string) float64 { return f(text) }

// Aggregator scores headlines and averages them per (date, ticker).
type Aggregator struct {
	scorer interfaces.Scorer
}

// NewAggregator uses scorer for every headline; nil selects the built-in Lexicon.
func NewAggregator(scorer interfaces.Scorer) *Aggregator {
	if scorer == nil {
		scorer = NewLexicon()
	}
	return &Aggregator{scorer: scorer}
}

type dayKey struct {
	date   time.Time
	ticker string
}

// Score returns every headline with its compound score, and one DailySentiment per
// (date, ticker) ordered by date then ticker. Tickers are trimmed and upper-cased before
// grouping. Blank headlines are scored, not dropped.
func (a *Aggregator) Score(headlines []types.HeadlineEvent) ([]types.ScoredHeadline, []types.DailySentiment) {
	scored := make([]types.ScoredHeadline, len(headlines))
	sums := make(map[dayKey]float64)
	counts := make(map[dayKey]int)
	var keys []dayKey

	for i, h := range headlines {
		h.Ticker = strings.ToUpper(strings.TrimSpace(h.Ticker))
		c := clamp(a.scorer.Compound(h.Headline))
		scored[i] = types.ScoredHeadline{HeadlineEvent: h, Compound: c}

		k := dayKey{date: frame.CivilDate(h.Date), ticker: h.Ticker}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += c
		counts[k]++
	}

	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].ticker < keys[j].ticker
	})

	daily := make([]types.DailySentiment, len(keys))
	for i, k := range keys {
		daily[i] = types.DailySentiment{
			Date:    k.date,
			Ticker:  k.ticker,
			AvgSent: sums[k] / float64(counts[k]),
			NItems:  counts[k],
		}
	}
	return scored, daily
}

// DailyFrame renders daily sentiment as a table with columns date, ticker, avg_sent, n_items.
func DailyFrame(daily []types.DailySentiment) *frame.Frame {
	f := frame.New("date", "ticker", "avg_sent", "n_items")
	for _, d := range daily {
		f.Append(
			frame.TimeValue(d.Date),
			frame.Str(d.Ticker),
			frame.FloatValue(d.AvgSent),
			frame.IntValue(int64(d.NItems)),
		)
	}
	return f
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
