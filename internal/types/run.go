package types

import (
	"time"

	"stocksage/internal/frame"
)

// Window is the inclusive date range prices are fetched for.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RunResult is everything one pipeline run produced.
type RunResult struct {
	RunID       string            `json:"run_id"`
	Provider    string            `json:"provider"`
	Window      Window            `json:"window"`
	Tickers     []string          `json:"tickers"`
	Scored      []ScoredHeadline  `json:"-"`
	Daily       []DailySentiment  `json:"daily"`
	Joined      *frame.Frame      `json:"-"`
	Rows        []JoinedRow       `json:"-"`
	Backtest    BacktestResult    `json:"backtest"`
	Correlation CorrelationResult `json:"correlation"`
}

// Empty reports that no price rows were available, so every statistic is a zero value.
func (r *RunResult) Empty() bool { return r == nil || r.Joined.Len() == 0 }
