// Package join aligns daily sentiment with the normalized price table.
package join

import (
	"errors"
	"fmt"
	"math"

	"stocksage/internal/frame"
	"stocksage/internal/sentiment"
	"stocksage/internal/types"
)

// Columns is the joined table layout.
var Columns = []string{"date", "ticker", "close", "return_1d", "return_3d", "return_5d", "avg_sent", "n_items"}

var (
	dailyColumns = []string{"date", "ticker", "avg_sent", "n_items"}
	priceColumns = []string{"date", "ticker", "close"}
	keys         = []string{"date", "ticker"}
)

// Join left-joins daily sentiment onto prices by (date, ticker). Every deduplicated price row
// is kept in order; sentiment for dates or tickers without a price row is dropped. Both
// sides are reduced to one row per key first, keeping the last occurrence. If the ticker
// columns hold different kinds, both are compared as text in a second attempt.
func Join(daily, prices *frame.Frame) (*frame.Frame, error) {
	if err := daily.Require("join daily sentiment", dailyColumns...); err != nil {
		return nil, err
	}
	if err := prices.Require("join prices", priceColumns...); err != nil {
		return nil, err
	}

	d := prepare(daily)
	p := prepare(prices)

	out, err := p.LeftJoin(d, keys...)
	if errors.Is(err, frame.ErrKeyTypeMismatch) {
		d, p = d.Map("ticker", asText), p.Map("ticker", asText)
		d, p = d.DropDuplicates(keys...), p.DropDuplicates(keys...)
		out, err = p.LeftJoin(d, keys...)
	}
	if err != nil {
		var shape *frame.DataShapeError
		if errors.As(err, &shape) {
			return nil, err
		}
		return nil, &frame.DataShapeError{Op: "join", Err: err}
	}
	return project(out), nil
}

// JoinTyped joins typed daily sentiment onto a canonical price table.
func JoinTyped(daily []types.DailySentiment, prices *frame.Frame) (*frame.Frame, error) {
	return Join(sentiment.DailyFrame(daily), prices)
}

func prepare(f *frame.Frame) *frame.Frame {
	return f.Map("date", frame.AsDate).DropDuplicates(keys...)
}

func asText(v frame.Value) frame.Value {
	if v.IsNull() {
		return v
	}
	return frame.Str(v.Text())
}

// project orders the joined columns: canonical ones first, then any other price columns.
func project(f *frame.Frame) *frame.Frame {
	out := &frame.Frame{}
	used := map[string]bool{}
	for _, name := range Columns {
		used[name] = true
		vals := f.Col(name)
		if vals == nil {
			vals = make([]frame.Value, f.Len())
		}
		out.AddColumn(frame.ColumnKey{Field: name}, vals)
	}
	for _, name := range f.Names() {
		if !used[name] {
			out.AddColumn(frame.ColumnKey{Field: name}, f.Col(name))
		}
	}
	return out
}

// Rows converts a joined table into typed records. A missing avg_sent is NaN with
// HasSentiment false and NItems 0.
func Rows(f *frame.Frame) []types.JoinedRow {
	out := make([]types.JoinedRow, 0, f.Len())
	col := func(name string, i int) frame.Value {
		if c := f.Col(name); c != nil {
			return c[i]
		}
		return frame.NullValue()
	}
	for i := 0; i < f.Len(); i++ {
		r := types.JoinedRow{
			PricePoint: types.PricePoint{
				Date:    col("date", i).Time(),
				Ticker:  col("ticker", i).Text(),
				Close:   col("close", i).FloatOrNaN(),
				Returns: make(map[types.Horizon]float64, len(types.Horizons)),
			},
			AvgSent: math.NaN(),
		}
		for _, h := range types.Horizons {
			r.Returns[h] = col(h.Column(), i).FloatOrNaN()
		}
		if v, ok := col("avg_sent", i).Float(); ok {
			r.AvgSent = v
			r.HasSentiment = true
		}
		if n, ok := col("n_items", i).Float(); ok {
			r.NItems = int(n)
		}
		out = append(out, r)
	}
	return out
}

// Summary describes a joined table for logs.
func Summary(f *frame.Frame) string {
	matched := 0
	for _, v := range f.Col("avg_sent") {
		if !v.IsNull() {
			matched++
		}
	}
	return fmt.Sprintf("%d rows, %d with sentiment", f.Len(), matched)
}
