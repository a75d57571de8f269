package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"stocksage/internal/logger"
	"stocksage/internal/report"
	"stocksage/internal/runlog"
	"stocksage/internal/store"
	"stocksage/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run [headlines.csv]",
	Short: "Score headlines, fetch prices and backtest the sentiment signal",
	Long: `Run the full analysis: score every headline, average per ticker and day, fetch
prices for the headline window, join, backtest the threshold rule and correlate
sentiment with 1, 3 and 5 session forward returns.

The headline CSV needs date, ticker and headline columns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	headlines, err := loadHeadlines(ctx, args)
	if err != nil {
		return err
	}
	pl, err := initializePipeline(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := pl.Run(ctx, headlines)
	if err != nil {
		return err
	}
	if path, err := runlog.Append(runlog.Dir(), time.Now(), runlog.NewEntry(res)); err != nil {
		logger.Warn(ctx, "Failed to append run journal", "error", err)
	} else {
		logger.Debug(ctx, "Run journaled", "path", path)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		if err := report.WriteJSON(out, res); err != nil {
			return err
		}
	} else {
		report.PrintSummary(out, res)
	}

	if exportDir != "" {
		return exportRun(ctx, cfg, res)
	}
	return nil
}

// exportRun writes the joined table, the equity curve, the scored headlines and the
// result document into the export directory.
func exportRun(ctx context.Context, cfg *store.Config, res *types.RunResult) error {
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{cfg.Export.JoinedFile, func(w io.Writer) error { return report.WriteJoinedCSV(w, res.Joined) }},
		{cfg.Export.CurveFile, func(w io.Writer) error { return report.WriteCurveCSV(w, res.Backtest.DailyCurve) }},
		{"scored_headlines.csv", func(w io.Writer) error { return report.WriteScoredCSV(w, res.Scored) }},
		{cfg.Export.ResultFile, func(w io.Writer) error { return report.WriteJSON(w, res) }},
	}
	for _, f := range files {
		path := filepath.Join(cfg.Export.Dir, f.name)
		if err := report.WriteFile(path, f.write); err != nil {
			logger.ErrorWithErr(ctx, "Export failed", err, "path", path)
			return err
		}
		logger.Info(ctx, "Export written", "path", path)
	}
	fmt.Fprintf(os.Stderr, "Exports written to %s\n", cfg.Export.Dir)
	return nil
}
