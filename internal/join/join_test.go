package join

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksage/internal/frame"
	"stocksage/internal/prices"
	"stocksage/internal/types"
)

func day(s string) time.Time {
	t, err := time.Parse(frame.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func priceTable(t *testing.T, ticker string, closes ...float64) *frame.Frame {
	t.Helper()
	raw := frame.New("date", "ticker", "close")
	d := day("2024-01-01")
	for _, c := range closes {
		raw.Append(frame.TimeValue(d), frame.Str(ticker), frame.FloatValue(c))
		d = d.AddDate(0, 0, 1)
	}
	out, err := prices.Normalize(raw)
	require.NoError(t, err)
	return out
}

func TestJoinAnchorsOnPrices(t *testing.T) {
	p := priceTable(t, "ABC", 10, 11, 12)
	daily := []types.DailySentiment{
		{Date: day("2024-01-02"), Ticker: "ABC", AvgSent: 0.4, NItems: 2},
		{Date: day("2024-03-01"), Ticker: "ABC", AvgSent: 0.9, NItems: 1},
		{Date: day("2024-01-01"), Ticker: "ZZZ", AvgSent: -0.9, NItems: 1},
	}

	out, err := JoinTyped(daily, p)
	require.NoError(t, err)
	assert.Equal(t, Columns, out.Names())
	assert.Equal(t, p.Len(), out.Len())

	rows := Rows(out)
	assert.False(t, rows[0].HasSentiment)
	assert.True(t, math.IsNaN(rows[0].AvgSent))
	assert.Equal(t, 0, rows[0].NItems)
	assert.True(t, rows[1].HasSentiment)
	assert.Equal(t, 0.4, rows[1].AvgSent)
	assert.Equal(t, 2, rows[1].NItems)
	assert.InDelta(t, 12.0/11.0-1, rows[1].Return(types.H1), 1e-12)
}

func TestJoinIsIdempotent(t *testing.T) {
	p := priceTable(t, "ABC", 10, 11, 12, 13)
	daily := []types.DailySentiment{{Date: day("2024-01-03"), Ticker: "ABC", AvgSent: 0.1, NItems: 1}}

	a, err := JoinTyped(daily, p)
	require.NoError(t, err)
	b, err := JoinTyped(daily, p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestJoinDeduplicatesLastWins(t *testing.T) {
	p := frame.New("date", "ticker", "close")
	p.Append(frame.TimeValue(day("2024-01-02")), frame.Str("ABC"), frame.FloatValue(1))
	p.Append(frame.TimeValue(day("2024-01-02")), frame.Str("ABC"), frame.FloatValue(2))

	d := frame.New("date", "ticker", "avg_sent", "n_items")
	d.Append(frame.Str("2024-01-02"), frame.Str("ABC"), frame.FloatValue(-0.5), frame.IntValue(1))
	d.Append(frame.TimeValue(day("2024-01-02").Add(15*time.Hour)), frame.Str("ABC"), frame.FloatValue(0.5), frame.IntValue(3))

	out, err := Join(d, p)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	rows := Rows(out)
	assert.Equal(t, 2.0, rows[0].Close)
	assert.Equal(t, 0.5, rows[0].AvgSent)
	assert.Equal(t, 3, rows[0].NItems)
}

func TestJoinMixedNumericTickersStayOneRowPerPrice(t *testing.T) {
	p := frame.New("date", "ticker", "close")
	p.Append(frame.TimeValue(day("2024-01-02")), frame.IntValue(7), frame.FloatValue(100))

	d := frame.New("date", "ticker", "avg_sent", "n_items")
	d.Append(frame.Str("2024-01-02"), frame.IntValue(7), frame.FloatValue(-0.2), frame.IntValue(1))
	d.Append(frame.Str("2024-01-02"), frame.FloatValue(7), frame.FloatValue(0.4), frame.IntValue(2))

	out, err := Join(d, p)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	rows := Rows(out)
	assert.Equal(t, 0.4, rows[0].AvgSent)
	assert.Equal(t, 2, rows[0].NItems)
}

func TestJoinRecoversFromTickerKindMismatch(t *testing.T) {
	raw := frame.New("date", "ticker", "close")
	raw.Append(frame.Str("2024-01-02"), frame.IntValue(500325), frame.FloatValue(2500))
	raw.Append(frame.Str("2024-01-03"), frame.IntValue(500325), frame.FloatValue(2550))
	p, err := prices.Normalize(raw)
	require.NoError(t, err)

	daily := []types.DailySentiment{{Date: day("2024-01-02"), Ticker: "500325", AvgSent: 0.3, NItems: 1}}
	out, err := JoinTyped(daily, p)
	require.NoError(t, err)

	rows := Rows(out)
	require.Len(t, rows, 2)
	assert.Equal(t, "500325", rows[0].Ticker)
	assert.True(t, rows[0].HasSentiment)
	assert.False(t, rows[1].HasSentiment)
}

func TestJoinKeepsPriceRowsWithUnreadableDates(t *testing.T) {
	p := frame.New("date", "ticker", "close")
	p.Append(frame.IntValue(20240102), frame.Str("A"), frame.FloatValue(1))
	d := frame.New("date", "ticker", "avg_sent", "n_items")
	d.Append(frame.Str("2024-01-02"), frame.Str("A"), frame.FloatValue(0.1), frame.IntValue(1))

	// Integer dates cannot be read as dates, so the price row stays but never matches.
	out, err := Join(d, p)
	require.NoError(t, err)
	assert.False(t, Rows(out)[0].HasSentiment)
}

func TestJoinMissingColumns(t *testing.T) {
	_, err := Join(frame.New("date", "ticker"), frame.New("date", "close"))

	var shape *frame.DataShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, []string{"avg_sent", "n_items"}, shape.Missing)

	_, err = Join(frame.New("date", "ticker", "avg_sent", "n_items"), frame.New("date", "close"))
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, []string{"ticker"}, shape.Missing)
}

func TestJoinRowCountEqualsDeduplicatedPrices(t *testing.T) {
	p := frame.New("date", "ticker", "close")
	for i, tk := range []string{"A", "B", "A", "B", "A"} {
		p.Append(frame.TimeValue(day("2024-01-01").AddDate(0, 0, i/2)), frame.Str(tk), frame.FloatValue(float64(10+i)))
	}
	d := frame.New("date", "ticker", "avg_sent", "n_items")
	d.Append(frame.TimeValue(day("2024-01-01")), frame.Str("A"), frame.FloatValue(0.2), frame.IntValue(1))
	d.Append(frame.TimeValue(day("2024-01-01")), frame.Str("A"), frame.FloatValue(0.3), frame.IntValue(2))

	out, err := Join(d, p)
	require.NoError(t, err)
	assert.Equal(t, p.DropDuplicates("date", "ticker").Len(), out.Len())
	assert.Equal(t, "5 rows, 1 with sentiment", Summary(out))
}
