package main

import (
	"github.com/spf13/cobra"

	"stocksage/internal/backtest"
	"stocksage/internal/report"
)

var sweepThresholds []float64

var sweepCmd = &cobra.Command{
	Use:   "sweep [headlines.csv]",
	Short: "Backtest the signal over a range of thresholds",
	Long: `Fetch prices once and run the threshold rule for every threshold, printing
signals, cumulative return, average trade return and hit rate per threshold.
Without --thresholds the backtest.sweep list from the config is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepThresholds, "thresholds", nil, "Comma separated thresholds to evaluate")
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	thresholds := sweepThresholds
	if len(thresholds) == 0 {
		thresholds = cfg.Backtest.Sweep
	}
	h, err := backtest.ParseHorizon(cfg.Backtest.Horizon)
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

	rows, err := pl.Sweep(ctx, headlines, thresholds)
	if err != nil {
		return err
	}
	report.PrintSweep(cmd.OutOrStdout(), h, rows)
	return nil
}
