package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	provider   string
	horizon    string
	threshold  float64
	exportDir  string
	jsonOut    bool
	useSample  bool
)

const sampleHeadlines = "data/sample_headlines.csv"

var rootCmd = &cobra.Command{
	Use:   "stocksage",
	Short: "Headline sentiment versus stock returns",
	Long: `StockSage scores dated, ticker-tagged headlines, joins the daily sentiment with
forward stock returns and backtests a long-only threshold rule.

Examples:
  stocksage run headlines.csv
  stocksage run --sample --horizon 3d --threshold 0.1
  stocksage sweep --sample --thresholds -0.2,0,0.2
  stocksage scrape RELIANCE TCS --out headlines.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeSystem()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownSystem()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
	pf.StringVar(&provider, "provider", "", "Price provider override: STATIC, YAHOO, KITE or CSV")
	pf.StringVar(&horizon, "horizon", "", "Backtest horizon override: 1d, 3d or 5d")
	pf.Float64Var(&threshold, "threshold", 0, "Sentiment threshold override")
	pf.StringVar(&exportDir, "export", "", "Directory to write CSV and JSON exports to")
	pf.BoolVar(&jsonOut, "json", false, "Print the result as JSON instead of the summary")
	pf.BoolVar(&useSample, "sample", false, "Use the bundled sample headlines")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
