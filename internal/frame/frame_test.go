package frame

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) Value {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return TimeValue(t)
}

func TestDropDuplicatesKeepsLastAtItsPosition(t *testing.T) {
	f := New("date", "ticker", "close")
	f.Append(day("2024-01-02"), Str("AAA"), FloatValue(1))
	f.Append(day("2024-01-02"), Str("BBB"), FloatValue(2))
	f.Append(day("2024-01-02"), Str("AAA"), FloatValue(3))

	out := f.DropDuplicates("date", "ticker")

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "BBB", out.Col("ticker")[0].Str())
	assert.Equal(t, "AAA", out.Col("ticker")[1].Str())
	assert.Equal(t, 3.0, out.Col("close")[1].FloatOrNaN())
}

func TestDropDuplicatesTreatsWholeFloatAsInt(t *testing.T) {
	f := New("date", "ticker", "avg_sent")
	f.Append(day("2024-01-02"), IntValue(7), FloatValue(-0.4))
	f.Append(day("2024-01-02"), FloatValue(7), FloatValue(0.6))

	out := f.DropDuplicates("date", "ticker")

	require.Equal(t, 1, out.Len())
	assert.Equal(t, 0.6, out.Col("avg_sent")[0].FloatOrNaN())
}

func TestLeftJoinPreservesLeftOrderAndNulls(t *testing.T) {
	left := New("date", "ticker", "close")
	left.Append(day("2024-01-03"), Str("B"), FloatValue(20))
	left.Append(day("2024-01-02"), Str("A"), FloatValue(10))
	left.Append(NullValue(), Str("A"), FloatValue(11))

	right := New("date", "ticker", "avg_sent")
	right.Append(day("2024-01-02"), Str("A"), FloatValue(0.5))
	right.Append(day("2024-01-09"), Str("Z"), FloatValue(-0.5))
	right.Append(NullValue(), Str("A"), FloatValue(0.9))

	out, err := left.LeftJoin(right, "date", "ticker")
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"date", "ticker", "close", "avg_sent"}, out.Names())
	assert.True(t, out.Col("avg_sent")[0].IsNull())
	assert.Equal(t, 0.5, out.Col("avg_sent")[1].FloatOrNaN())
	assert.True(t, out.Col("avg_sent")[2].IsNull(), "null keys never match")
}

func TestLeftJoinKeyKindMismatch(t *testing.T) {
	left := New("ticker", "close")
	left.Append(IntValue(500325), FloatValue(1))
	right := New("ticker", "avg_sent")
	right.Append(Str("500325"), FloatValue(0.1))

	_, err := left.LeftJoin(right, "ticker")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyTypeMismatch))

	var mismatch *KeyTypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "ticker", mismatch.Column)
}

func TestLeftJoinMissingKeyIsShapeError(t *testing.T) {
	left := New("date", "close")
	right := New("date", "ticker")

	_, err := left.LeftJoin(right, "date", "ticker")
	var shape *DataShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, []string{"ticker"}, shape.Missing)
}

func TestRequireListsEveryMissingColumn(t *testing.T) {
	err := New("date").Require("join", "date", "ticker", "close")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker, close")
}

func TestStackNestedFrame(t *testing.T) {
	f := &Frame{}
	f.AddColumn(ColumnKey{Field: "Date"}, []Value{day("2024-01-02"), day("2024-01-03")})
	f.AddColumn(ColumnKey{Field: "Close", Ticker: Str("MSFT")}, []Value{FloatValue(300), NullValue()})
	f.AddColumn(ColumnKey{Field: "Close", Ticker: Str("AAPL")}, []Value{FloatValue(190), FloatValue(191)})

	out := f.Stack("Ticker")

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"Date", "Ticker", "Close"}, out.Names())
	var got []string
	for _, v := range out.Col("Ticker") {
		got = append(got, v.Str())
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "AAPL"}, got)
}

func TestReadCSVInfersOneKindPerColumn(t *testing.T) {
	in := "date,ticker,close\n2024-01-02,500325,10\n2024-01-03,500325,10.5\n2024-01-04,,nan\n"

	f, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	assert.Equal(t, []Kind{String}, f.Kinds("date"))
	assert.Equal(t, []Kind{Int}, f.Kinds("ticker"))
	assert.Equal(t, []Kind{Float}, f.Kinds("close"))
	assert.True(t, f.Col("close")[2].IsNull())
}

func TestReadCSVKeepsNamedColumnsVerbatim(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("Ticker,close\n0700,1\n,2\n"), "ticker")
	require.NoError(t, err)
	assert.Equal(t, []Kind{String}, f.Kinds("Ticker"))
	assert.Equal(t, "0700", f.Col("Ticker")[0].Str())
	assert.True(t, f.Col("Ticker")[1].IsNull())
	assert.Equal(t, []Kind{Int}, f.Kinds("close"))
}

func TestConcatRejectsDifferentSchemas(t *testing.T) {
	a := New("date", "close")
	a.Append(day("2024-01-02"), FloatValue(1))
	b := New("date", "ticker")
	b.Append(day("2024-01-02"), Str("A"))

	_, err := Concat(a, nil, &Frame{}, b)
	assert.Error(t, err)

	out, err := Concat(a, &Frame{}, a)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestAsDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	v := AsDate(TimeValue(time.Date(2024, 3, 1, 0, 30, 0, 0, ist)))
	assert.Equal(t, "2024-03-01", v.Text())
	assert.Equal(t, "2024-03-01", AsDate(Str("2024-03-01T15:30:00Z")).Text())
	assert.True(t, AsDate(Str("not a date")).IsNull())
	assert.True(t, AsDate(IntValue(3)).IsNull())
}
