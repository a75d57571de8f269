// Package backtest evaluates the long-only rule "hold every ticker whose same-day sentiment
// is above a threshold for one horizon" over a joined table.
package backtest

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/ta"
	"stocksage/internal/types"
)

// Run applies the threshold rule. The portfolio return of a date is the mean trade return
// over every row of that date, so rows without a signal count as flat positions. A missing
// forward return contributes zero. When avg_sent or the horizon's return column is absent
// the result is zero-valued.
func Run(joined *frame.Frame, h types.Horizon, threshold float64) types.BacktestResult {
	res := types.BacktestResult{Horizon: h, Threshold: threshold, DailyCurve: []types.CurvePoint{}}
	if joined == nil || !joined.Has("avg_sent") || !joined.Has(h.Column()) {
		return res
	}

	sents, rets := joined.Col("avg_sent"), joined.Col(h.Column())
	dates := joined.Col("date")

	var signalRets []float64
	hits := 0
	sums := map[time.Time]float64{}
	counts := map[time.Time]int{}
	for i := 0; i < joined.Len(); i++ {
		sent := sents[i].FloatOrNaN()
		ret := rets[i].FloatOrNaN()
		signal := !math.IsNaN(sent) && sent > threshold

		trade := 0.0
		if signal {
			res.NSignals++
			signalRets = append(signalRets, ret)
			if ret > 0 {
				hits++
			}
			if !math.IsNaN(ret) {
				trade = ret
			}
		}

		if dates == nil || dates[i].Kind() != frame.Time {
			continue
		}
		d := dates[i].Time()
		sums[d] += trade
		counts[d]++
	}

	days := make([]time.Time, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	daily := make([]float64, len(days))
	for i, d := range days {
		daily[i] = sums[d] / float64(counts[d])
	}
	equity := ta.Equity(daily)
	for i, d := range days {
		res.DailyCurve = append(res.DailyCurve, types.CurvePoint{Date: d, Return: daily[i], Equity: equity[i]})
	}

	if len(equity) > 0 {
		res.CumulativeReturn = equity[len(equity)-1] - 1
	}
	if res.NSignals > 0 {
		res.AvgTradeReturn = ta.ZeroIfNaN(ta.NanMean(signalRets))
		res.HitRate = float64(hits) / float64(res.NSignals)
	}
	return res
}

// Sweep runs the rule once per threshold over the same table.
func Sweep(joined *frame.Frame, h types.Horizon, thresholds []float64) []types.SweepRow {
	rows := make([]types.SweepRow, 0, len(thresholds))
	for _, th := range thresholds {
		r := Run(joined, h, th)
		rows = append(rows, types.SweepRow{
			Threshold:        th,
			NSignals:         r.NSignals,
			CumulativeReturn: r.CumulativeReturn,
			AvgTradeReturn:   r.AvgTradeReturn,
			HitRate:          r.HitRate,
		})
	}
	return rows
}

// ParseHorizon accepts "1d", "return_1d", "Return_1d" or a bare session count.
func ParseHorizon(s string) (types.Horizon, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "return_")
	v = strings.TrimSuffix(v, "d")
	n, err := strconv.Atoi(v)
	if err != nil || !types.Horizon(n).Valid() {
		return 0, fmt.Errorf("unknown horizon %q: want 1d, 3d or 5d", s)
	}
	return types.Horizon(n), nil
}
