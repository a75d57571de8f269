package prices

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

func day(s string) time.Time {
	t, err := time.Parse(frame.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func flatPrices(ticker string, start string, closes ...float64) *frame.Frame {
	f := frame.New("Date", "Ticker", "Close")
	d := day(start)
	for _, c := range closes {
		f.Append(frame.TimeValue(d), frame.Str(ticker), frame.FloatValue(c))
		d = d.AddDate(0, 0, 1)
	}
	return f
}

func TestNormalizeForwardReturns(t *testing.T) {
	out, err := Normalize(flatPrices("xyz", "2024-01-01", 10, 11, 9, 12, 13, 14))
	require.NoError(t, err)
	require.Equal(t, Columns, out.Names())

	pts := Points(out)
	require.Len(t, pts, 6)
	assert.Equal(t, "XYZ", pts[0].Ticker)
	assert.InDelta(t, 0.10, pts[0].Return(types.H1), 1e-12)
	assert.InDelta(t, 0.40, pts[0].Return(types.H5), 1e-12)
	assert.InDelta(t, 0.20, pts[0].Return(types.H3), 1e-12)
	assert.True(t, math.IsNaN(pts[5].Return(types.H1)))
	for i := 1; i < 6; i++ {
		assert.True(t, math.IsNaN(pts[i].Return(types.H5)), "row %d", i)
	}
	for i := 3; i < 6; i++ {
		assert.True(t, math.IsNaN(pts[i].Return(types.H3)), "row %d", i)
	}
}

func TestNormalizeReturnsDependOnlyOnLaterCloses(t *testing.T) {
	base, err := Normalize(flatPrices("A", "2024-01-01", 10, 11, 12, 13, 14, 15, 16))
	require.NoError(t, err)
	bumped, err := Normalize(flatPrices("A", "2024-01-01", 10, 11, 12, 13, 14, 15, 99))
	require.NoError(t, err)

	// Only rows whose horizon reaches the last close may change.
	for _, h := range types.Horizons {
		b, m := base.Col(h.Column()), bumped.Col(h.Column())
		for i := 0; i < 6-h.Sessions(); i++ {
			assert.True(t, b[i].Equal(m[i]), "%s row %d", h, i)
		}
	}
}

func TestNormalizeStacksNestedFrames(t *testing.T) {
	raw := &frame.Frame{}
	raw.AddColumn(frame.ColumnKey{Field: "Date"}, []frame.Value{
		frame.TimeValue(day("2024-01-02")), frame.TimeValue(day("2024-01-03")),
	})
	raw.AddColumn(frame.ColumnKey{Field: "Close", Ticker: frame.Str("BBB")}, []frame.Value{frame.FloatValue(20), frame.FloatValue(22)})
	raw.AddColumn(frame.ColumnKey{Field: "Close", Ticker: frame.Str("AAA")}, []frame.Value{frame.FloatValue(10), frame.NullValue()})

	out, err := Normalize(raw)
	require.NoError(t, err)
	pts := Points(out)
	require.Len(t, pts, 3)
	assert.Equal(t, "AAA", pts[0].Ticker)
	assert.Equal(t, "BBB", pts[1].Ticker)
	assert.InDelta(t, 0.10, pts[1].Return(types.H1), 1e-12)
}

func TestNormalizeDedupKeepsLastAndCivilDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	f := frame.New("date", "ticker", "close")
	f.Append(frame.TimeValue(time.Date(2024, 1, 2, 9, 15, 0, 0, ist)), frame.Str(" aaa "), frame.FloatValue(1))
	f.Append(frame.Str("2024-01-02"), frame.Str("AAA"), frame.FloatValue(2))
	f.Append(frame.Str("garbage"), frame.Str("AAA"), frame.FloatValue(3))
	f.Append(frame.Str("2024-01-03"), frame.Str("AAA"), frame.Str("4"))

	out, err := Normalize(f)
	require.NoError(t, err)
	pts := Points(out)
	require.Len(t, pts, 2)
	assert.Equal(t, day("2024-01-02"), pts[0].Date)
	assert.Equal(t, 2.0, pts[0].Close)
	assert.InDelta(t, 1.0, pts[0].Return(types.H1), 1e-12)
	assert.Equal(t, 4.0, pts[1].Close)
}

func TestNormalizeMissingColumns(t *testing.T) {
	_, err := Normalize(frame.New("Date", "Open"))

	var shape *frame.DataShapeError
	require.True(t, errors.As(err, &shape))
	assert.ElementsMatch(t, []string{"ticker", "close"}, shape.Missing)
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, in := range []*frame.Frame{nil, {}, frame.New("Date", "Ticker", "Close")} {
		out, err := Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
		assert.Equal(t, Columns, out.Names())
	}
}

func TestNormalizeKeepsNumericTickers(t *testing.T) {
	f := frame.New("date", "ticker", "close")
	f.Append(frame.Str("2024-01-02"), frame.IntValue(500325), frame.IntValue(2500))
	f.Append(frame.Str("2024-01-03"), frame.IntValue(500325), frame.IntValue(2550))

	out, err := Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, []frame.Kind{frame.Int}, out.Kinds("ticker"))
	assert.InDelta(t, 0.02, out.Col("return_1d")[0].FloatOrNaN(), 1e-12)
}
