package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

const rule = "═══════════════════════════════════════════════════════════════"

// WriteJSON writes the run result document.
func WriteJSON(w io.Writer, result *types.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func coef(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, rule)
	pad := (len([]rune(rule)) - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), title)
	fmt.Fprintln(w, rule)
}

// PrintSummary prints headline, price, backtest and correlation figures for a run.
func PrintSummary(w io.Writer, r *types.RunResult) {
	section(w, "SENTIMENT RUN SUMMARY")
	fmt.Fprintf(w, "Run ID:             %s\n", r.RunID)
	fmt.Fprintf(w, "Price provider:     %s\n", r.Provider)
	fmt.Fprintf(w, "Window:             %s → %s\n", r.Window.From.Format(frame.DateLayout), r.Window.To.Format(frame.DateLayout))
	fmt.Fprintf(w, "Tickers:            %s\n", strings.Join(r.Tickers, ", "))
	fmt.Fprintf(w, "Headlines scored:   %d\n", len(r.Scored))
	fmt.Fprintf(w, "Ticker-days:        %d\n", len(r.Daily))

	matched := 0
	for _, row := range r.Rows {
		if row.HasSentiment {
			matched++
		}
	}
	fmt.Fprintf(w, "Price rows:         %d (%d with sentiment)\n", len(r.Rows), matched)
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "⚠️  No price data returned for these tickers and dates")
		fmt.Fprintln(w)
	}

	b := r.Backtest
	section(w, "BACKTEST")
	fmt.Fprintf(w, "Horizon:            %s\n", b.Horizon)
	fmt.Fprintf(w, "Threshold:          %.2f\n", b.Threshold)
	fmt.Fprintf(w, "Signals:            %d\n", b.NSignals)
	fmt.Fprintf(w, "Cumulative return:  %s\n", pct(b.CumulativeReturn))
	fmt.Fprintf(w, "Avg trade return:   %s\n", pct(b.AvgTradeReturn))
	fmt.Fprintf(w, "Hit rate:           %s\n", pct(b.HitRate))
	fmt.Fprintf(w, "Trading days:       %d\n", len(b.DailyCurve))
	fmt.Fprintln(w)

	PrintCorrelation(w, r.Correlation)
}

// PrintCorrelation prints the one-row correlation table. Undefined coefficients show as n/a.
func PrintCorrelation(w io.Writer, c types.CorrelationResult) {
	section(w, "CORRELATION")
	if c.Empty() {
		fmt.Fprintln(w, "Not enough complete rows to correlate")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "%-22s", "")
	for _, h := range types.Horizons {
		fmt.Fprintf(w, "%12s", h.Column())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-22s", c.Label)
	for _, h := range types.Horizons {
		v, ok := c.Get(h)
		fmt.Fprintf(w, "%12s", coef(v, ok))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "(%d complete rows)\n\n", c.Observations)
}

// PrintSweep prints one line per threshold.
func PrintSweep(w io.Writer, h types.Horizon, rows []types.SweepRow) {
	section(w, "THRESHOLD SWEEP "+h.String())
	fmt.Fprintf(w, "%10s %8s %12s %12s %9s\n", "threshold", "signals", "cumulative", "avg trade", "hit rate")
	for _, r := range rows {
		fmt.Fprintf(w, "%10.2f %8d %12s %12s %9s\n", r.Threshold, r.NSignals, pct(r.CumulativeReturn), pct(r.AvgTradeReturn), pct(r.HitRate))
	}
	fmt.Fprintln(w)
}
