// Package pipeline runs headlines through scoring, price retrieval, the join, the backtest
// and the correlation.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"stocksage/internal/backtest"
	"stocksage/internal/correlation"
	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
	"stocksage/internal/join"
	"stocksage/internal/logger"
	"stocksage/internal/prices"
	"stocksage/internal/sentiment"
	"stocksage/internal/store"
	"stocksage/internal/types"
)

type Pipeline struct {
	fetcher   *prices.Fetcher
	agg       *sentiment.Aggregator
	horizon   types.Horizon
	threshold float64
	padBefore int
	padAfter  int
	newID     func() string
}

var _ interfaces.Pipeline = (*Pipeline)(nil)

func newPipeline(cfg *store.Config, fetcher *prices.Fetcher, scorer interfaces.Scorer) (*Pipeline, error) {
	h, err := backtest.ParseHorizon(cfg.Backtest.Horizon)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		fetcher:   fetcher,
		agg:       sentiment.NewAggregator(scorer),
		horizon:   h,
		threshold: cfg.Backtest.Threshold,
		padBefore: cfg.Window.PadBeforeDays,
		padAfter:  cfg.Window.PadAfterDays,
		newID:     uuid.NewString,
	}, nil
}

// Run scores the headlines and evaluates the signal against prices around them. No price
// data is not an error: the result is empty and its statistics are zero.
func (p *Pipeline) Run(ctx context.Context, headlines []types.HeadlineEvent) (*types.RunResult, error) {
	res, err := p.prepare(ctx, headlines)
	if err != nil {
		return nil, err
	}

	op := logger.StartOperation(ctx, "pipeline.backtest", "horizon", p.horizon.String(), "threshold", p.threshold)
	res.Backtest = backtest.Run(res.Joined, p.horizon, p.threshold)
	op.End("signals", res.Backtest.NSignals, "days", len(res.Backtest.DailyCurve))

	op = logger.StartOperation(ctx, "pipeline.correlate")
	res.Correlation = correlation.Correlate(res.Joined)
	op.End("observations", res.Correlation.Observations)
	return res, nil
}

// Sweep runs the backtest once per threshold over one fetch of prices.
func (p *Pipeline) Sweep(ctx context.Context, headlines []types.HeadlineEvent, thresholds []float64) ([]types.SweepRow, error) {
	res, err := p.prepare(ctx, headlines)
	if err != nil {
		return nil, err
	}
	return backtest.Sweep(res.Joined, p.horizon, thresholds), nil
}

func (p *Pipeline) prepare(ctx context.Context, headlines []types.HeadlineEvent) (*types.RunResult, error) {
	res := &types.RunResult{RunID: p.newID(), Provider: p.fetcher.Provider()}
	op := logger.StartOperation(ctx, "pipeline.score", "run_id", res.RunID, "headlines", len(headlines))
	res.Scored, res.Daily = p.agg.Score(headlines)
	op.End("ticker_days", len(res.Daily))

	res.Tickers = tickers(res.Daily)
	res.Window = p.window(headlines)

	priceTable := prices.Empty()
	if len(res.Tickers) > 0 {
		op = logger.StartOperation(ctx, "pipeline.prices", "run_id", res.RunID, "tickers", len(res.Tickers), "provider", res.Provider)
		var err error
		priceTable, err = p.fetcher.Fetch(ctx, res.Tickers, res.Window.From, res.Window.To)
		if err != nil {
			op.EndWithError(err)
			return nil, fmt.Errorf("fetch prices: %w", err)
		}
		op.End("rows", priceTable.Len())
	}
	if priceTable.Empty() {
		logger.Event(ctx, "No price data returned",
			"run_id", res.RunID,
			"tickers", len(res.Tickers),
			"from", res.Window.From.Format(frame.DateLayout),
			"to", res.Window.To.Format(frame.DateLayout),
		)
	}

	op = logger.StartOperation(ctx, "pipeline.join", "run_id", res.RunID)
	joined, err := join.JoinTyped(res.Daily, priceTable)
	if err != nil {
		op.EndWithError(err)
		return nil, fmt.Errorf("join sentiment with prices: %w", err)
	}
	op.End("summary", join.Summary(joined))

	res.Joined = joined
	res.Rows = join.Rows(joined)
	return res, nil
}

// window spans the headline dates, padded so forward returns near the edges can be
// computed. It is zero when there are no headlines.
func (p *Pipeline) window(headlines []types.HeadlineEvent) types.Window {
	var lo, hi time.Time
	for _, h := range headlines {
		if h.Date.IsZero() {
			continue
		}
		d := frame.CivilDate(h.Date)
		if lo.IsZero() || d.Before(lo) {
			lo = d
		}
		if hi.IsZero() || d.After(hi) {
			hi = d
		}
	}
	if lo.IsZero() {
		return types.Window{}
	}
	return types.Window{
		From: lo.AddDate(0, 0, -p.padBefore),
		To:   hi.AddDate(0, 0, p.padAfter),
	}
}

func tickers(daily []types.DailySentiment) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range daily {
		if d.Ticker == "" || seen[d.Ticker] {
			continue
		}
		seen[d.Ticker] = true
		out = append(out, d.Ticker)
	}
	sort.Strings(out)
	return out
}
