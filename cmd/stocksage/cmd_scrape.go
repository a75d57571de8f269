package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stocksage/internal/interfaces"
	"stocksage/internal/news"
	"stocksage/internal/report"
)

var scrapeOut string

var scrapeCmd = &cobra.Command{
	Use:   "scrape TICKER [TICKER...]",
	Short: "Collect headlines from news sites into a headline CSV",
	Long: `Scrape the configured news sources for each ticker and write the headlines in
the date,ticker,headline layout that run and sweep read.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "Output CSV path (default stdout)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	sources := news.SelectSources(news.DefaultSources(), cfg.News.Sources)
	if len(sources) == 0 {
		return fmt.Errorf("no news sources match %v", cfg.News.Sources)
	}
	var source interfaces.HeadlineSource = news.NewScraper(cfg.News.Timeout, cfg.News.MaxPerQuery, news.WithSources(sources...))

	events, err := source.Headlines(ctx, args)
	if err != nil {
		return err
	}

	if scrapeOut == "" {
		return news.WriteHeadlines(cmd.OutOrStdout(), events)
	}
	if err := report.WriteFile(scrapeOut, func(w io.Writer) error { return news.WriteHeadlines(w, events) }); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d headlines written to %s\n", len(events), scrapeOut)
	return nil
}
