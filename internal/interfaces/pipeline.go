package interfaces

import (
	"context"

	"stocksage/internal/types"
)

// Pipeline runs the headline to backtest analysis.
type Pipeline interface {
	// Run scores headlines, fetches prices for the headline window and evaluates the signal.
	Run(ctx context.Context, headlines []types.HeadlineEvent) (*types.RunResult, error)

	// Sweep runs the backtest once per threshold over the same joined data.
	Sweep(ctx context.Context, headlines []types.HeadlineEvent, thresholds []float64) ([]types.SweepRow, error)
}
