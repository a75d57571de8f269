package pipelineobs

import (
	"context"
	"time"

	"stocksage/internal/interfaces"
	"stocksage/internal/logger"
	"stocksage/internal/trace"
	"stocksage/internal/types"
)

type observablePipeline struct {
	pipeline interfaces.Pipeline
}

var _ interfaces.Pipeline = (*observablePipeline)(nil)

func Wrap(p interfaces.Pipeline) interfaces.Pipeline {
	return &observablePipeline{pipeline: p}
}

func (op *observablePipeline) Run(ctx context.Context, headlines []types.HeadlineEvent) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting sentiment run",
		"headlines", len(headlines),
	)

	res, err := op.pipeline.Run(ctx, headlines)
	if err != nil {
		span.RecordError(err)
		logger.ErrorWithErrSkip(ctx, 1, "Sentiment run failed", err,
			"headlines", len(headlines),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	if res.Empty() {
		logger.WarnSkip(ctx, 1, "Sentiment run produced no price rows",
			"run_id", res.RunID,
			"tickers", len(res.Tickers),
			"provider", res.Provider,
		)
	}

	logger.InfoSkip(ctx, 1, "Sentiment run completed",
		"run_id", res.RunID,
		"tickers", len(res.Tickers),
		"rows", len(res.Rows),
		"signals", res.Backtest.NSignals,
		"cumulative_return", res.Backtest.CumulativeReturn,
		"hit_rate", res.Backtest.HitRate,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (op *observablePipeline) Sweep(ctx context.Context, headlines []types.HeadlineEvent, thresholds []float64) ([]types.SweepRow, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Sweep")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting threshold sweep",
		"headlines", len(headlines),
		"thresholds", len(thresholds),
	)

	rows, err := op.pipeline.Sweep(ctx, headlines, thresholds)
	if err != nil {
		span.RecordError(err)
		logger.ErrorWithErrSkip(ctx, 1, "Threshold sweep failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Threshold sweep completed",
		"rows", len(rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rows, nil
}
