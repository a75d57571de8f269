// Package prices fetches daily closes from the configured provider and normalizes them
// into one flat table of (date, ticker, close) with forward returns attached.
package prices

import (
	"math"
	"strconv"
	"strings"

	"stocksage/internal/frame"
	"stocksage/internal/ta"
	"stocksage/internal/types"
)

// Columns is the canonical price table layout.
var Columns = []string{"date", "ticker", "close", "return_1d", "return_3d", "return_5d"}

var aliases = map[string]string{
	"date":      "date",
	"datetime":  "date",
	"timestamp": "date",
	"ticker":    "ticker",
	"symbol":    "ticker",
	"close":     "close",
	"return_1d": "return_1d",
	"return_3d": "return_3d",
	"return_5d": "return_5d",
}

// Empty is a price table with the canonical columns and no rows.
func Empty() *frame.Frame { return frame.New(Columns...) }

// Normalize flattens a raw provider table into the canonical layout. Nested (field, ticker)
// tables are stacked first. Dates become calendar dates, and rows without a readable date
// or close are dropped since they are not sessions. String tickers are upper-cased,
// duplicate (date, ticker) rows keep the last occurrence, and forward returns are
// recomputed per ticker in date order.
func Normalize(raw *frame.Frame) (*frame.Frame, error) {
	if raw == nil || len(raw.Keys()) == 0 {
		return Empty(), nil
	}
	flat := raw.Stack("ticker")
	canonicalize(flat)
	if err := flat.Require("normalize prices", "date", "ticker", "close"); err != nil {
		return nil, err
	}
	if flat.Empty() {
		return Empty(), nil
	}

	flat = flat.Map("date", frame.AsDate).
		Map("ticker", normalizeTicker).
		Map("close", asNumber)
	dates, tickers, closes := flat.Col("date"), flat.Col("ticker"), flat.Col("close")
	flat = flat.Filter(func(i int) bool {
		return !dates[i].IsNull() && !tickers[i].IsNull() && !closes[i].IsNull()
	})
	flat = flat.DropDuplicates("date", "ticker").SortBy("ticker", "date")

	out := Empty()
	dates, tickers, closes = flat.Col("date"), flat.Col("ticker"), flat.Col("close")
	for start := 0; start < flat.Len(); {
		end := start
		for end < flat.Len() && tickers[end].Equal(tickers[start]) {
			end++
		}
		series := make([]float64, end-start)
		for i := range series {
			series[i] = closes[start+i].FloatOrNaN()
		}
		fwd := make(map[types.Horizon][]float64, len(types.Horizons))
		for _, h := range types.Horizons {
			fwd[h] = ta.ForwardReturns(series, h.Sessions())
		}
		for i := range series {
			out.Append(
				dates[start+i],
				tickers[start+i],
				closes[start+i],
				frame.FloatValue(fwd[types.H1][i]),
				frame.FloatValue(fwd[types.H3][i]),
				frame.FloatValue(fwd[types.H5][i]),
			)
		}
		start = end
	}
	return out, nil
}

func canonicalize(f *frame.Frame) {
	for _, name := range f.Names() {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		if canon, ok := aliases[key]; ok && canon != name {
			f.Rename(name, canon)
		}
	}
}

func normalizeTicker(v frame.Value) frame.Value {
	if v.Kind() != frame.String {
		return v
	}
	s := strings.ToUpper(strings.TrimSpace(v.Str()))
	if s == "" {
		return frame.NullValue()
	}
	return frame.Str(s)
}

func asNumber(v frame.Value) frame.Value {
	if f, ok := v.Float(); ok {
		return frame.FloatValue(f)
	}
	if v.Kind() == frame.String {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64); err == nil {
			return frame.FloatValue(f)
		}
	}
	return frame.NullValue()
}

// Points converts a canonical price table into typed records. Missing numbers become NaN.
func Points(f *frame.Frame) []types.PricePoint {
	out := make([]types.PricePoint, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		p := types.PricePoint{
			Date:    f.Col("date")[i].Time(),
			Ticker:  f.Col("ticker")[i].Text(),
			Close:   math.NaN(),
			Returns: make(map[types.Horizon]float64, len(types.Horizons)),
		}
		if f.Has("close") {
			p.Close = f.Col("close")[i].FloatOrNaN()
		}
		for _, h := range types.Horizons {
			p.Returns[h] = math.NaN()
			if f.Has(h.Column()) {
				p.Returns[h] = f.Col(h.Column())[i].FloatOrNaN()
			}
		}
		out = append(out, p)
	}
	return out
}
