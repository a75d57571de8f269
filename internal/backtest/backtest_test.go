package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

type row struct {
	date string
	sent *float64
	ret  *float64
}

func f(v float64) *float64 { return &v }

func table(rows ...row) *frame.Frame {
	t := frame.New("date", "ticker", "avg_sent", "return_1d")
	for i, r := range rows {
		d := frame.NullValue()
		if r.date != "" {
			tm, _ := time.Parse(frame.DateLayout, r.date)
			d = frame.TimeValue(tm)
		}
		s, ret := frame.NullValue(), frame.NullValue()
		if r.sent != nil {
			s = frame.FloatValue(*r.sent)
		}
		if r.ret != nil {
			ret = frame.FloatValue(*r.ret)
		}
		t.Append(d, frame.Str(string(rune('A'+i))), s, ret)
	}
	return t
}

func TestRunSingleSignalRow(t *testing.T) {
	res := Run(table(row{"2024-01-02", f(0.2), f(0.03)}), types.H1, 0.05)

	assert.Equal(t, 1, res.NSignals)
	assert.InDelta(t, 0.03, res.CumulativeReturn, 1e-12)
	assert.InDelta(t, 0.03, res.AvgTradeReturn, 1e-12)
	assert.Equal(t, 1.0, res.HitRate)
	require.Len(t, res.DailyCurve, 1)
	assert.InDelta(t, 1.03, res.DailyCurve[0].Equity, 1e-12)
}

func TestRunNoSignals(t *testing.T) {
	res := Run(table(
		row{"2024-01-02", f(0.01), f(0.05)},
		row{"2024-01-03", nil, f(0.05)},
		row{"2024-01-04", f(-0.3), f(-0.02)},
	), types.H1, 0.05)

	assert.Equal(t, 0, res.NSignals)
	assert.Equal(t, 0.0, res.CumulativeReturn)
	assert.Equal(t, 0.0, res.AvgTradeReturn)
	assert.Equal(t, 0.0, res.HitRate)
	require.Len(t, res.DailyCurve, 3)
	for _, p := range res.DailyCurve {
		assert.Equal(t, 0.0, p.Return)
		assert.Equal(t, 1.0, p.Equity)
	}
}

func TestRunEqualWeightsTheWholeDay(t *testing.T) {
	res := Run(table(
		row{"2024-01-02", f(0.5), f(0.04)},
		row{"2024-01-02", f(-0.5), f(0.50)},
		row{"2024-01-03", f(0.5), nil},
		row{"2024-01-03", f(0.6), f(-0.02)},
	), types.H1, 0)

	require.Len(t, res.DailyCurve, 2)
	assert.InDelta(t, 0.02, res.DailyCurve[0].Return, 1e-12)
	assert.InDelta(t, -0.01, res.DailyCurve[1].Return, 1e-12)
	assert.Equal(t, 3, res.NSignals)
	assert.InDelta(t, 0.01, res.AvgTradeReturn, 1e-12)
	assert.InDelta(t, 1.0/3.0, res.HitRate, 1e-12)
}

func TestRunEquityRecurrence(t *testing.T) {
	res := Run(table(
		row{"2024-01-05", f(0.9), f(0.10)},
		row{"2024-01-02", f(0.9), f(-0.05)},
		row{"2024-01-03", f(0.9), f(0.02)},
		row{"", f(0.9), f(0.50)},
	), types.H1, 0.05)

	require.Len(t, res.DailyCurve, 3)
	prev := 1.0
	for i, p := range res.DailyCurve {
		if i > 0 {
			assert.True(t, res.DailyCurve[i-1].Date.Before(p.Date))
		}
		assert.InDelta(t, prev*(1+p.Return), p.Equity, 1e-12)
		prev = p.Equity
	}
	assert.InDelta(t, prev-1, res.CumulativeReturn, 1e-12)
	assert.Equal(t, 4, res.NSignals)
}

func TestRunMissingColumnsDegrade(t *testing.T) {
	tb := table(row{"2024-01-02", f(0.9), f(0.1)})

	res := Run(tb, types.H5, 0)
	assert.Equal(t, types.BacktestResult{Horizon: types.H5, DailyCurve: []types.CurvePoint{}}, res)

	res = Run(frame.New("date", "return_1d"), types.H1, 0)
	assert.Equal(t, 0, res.NSignals)
	assert.Empty(t, res.DailyCurve)

	assert.Empty(t, Run(nil, types.H1, 0).DailyCurve)
}

func TestRunIsPure(t *testing.T) {
	tb := table(row{"2024-01-02", f(0.2), f(0.03)}, row{"2024-01-03", f(0.3), f(-0.01)})
	assert.Equal(t, Run(tb, types.H1, 0.1), Run(tb, types.H1, 0.1))
}

func TestSweep(t *testing.T) {
	tb := table(row{"2024-01-02", f(0.2), f(0.03)}, row{"2024-01-02", f(0.4), f(-0.01)})

	rows := Sweep(tb, types.H1, []float64{0.5, 0.3, 0.1})
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].NSignals)
	assert.Equal(t, 1, rows[1].NSignals)
	assert.Equal(t, 2, rows[2].NSignals)
	assert.InDelta(t, 0.01, rows[2].CumulativeReturn, 1e-12)
}

func TestParseHorizon(t *testing.T) {
	for in, want := range map[string]types.Horizon{"1d": types.H1, "Return_3d": types.H3, "return_5d": types.H5, "5": types.H5} {
		got, err := ParseHorizon(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseHorizon("2d")
	assert.Error(t, err)
	_, err = ParseHorizon("weekly")
	assert.Error(t, err)
}
