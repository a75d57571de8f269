// Package report writes pipeline results: CSV exports, the JSON result document and the
// terminal summary.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

// Num is a CSV number cell; NaN is written as an empty cell.
type Num float64

func (n Num) MarshalCSV() (string, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

type joinedRecord struct {
	Date     string `csv:"date"`
	Ticker   string `csv:"ticker"`
	Close    Num    `csv:"close"`
	Return1d Num    `csv:"return_1d"`
	Return3d Num    `csv:"return_3d"`
	Return5d Num    `csv:"return_5d"`
	AvgSent  Num    `csv:"avg_sent"`
	NItems   Num    `csv:"n_items"`
}

type curveRecord struct {
	Date   string `csv:"date"`
	Return Num    `csv:"return"`
	Equity Num    `csv:"equity"`
}

type scoredRecord struct {
	Date     string `csv:"date"`
	Ticker   string `csv:"ticker"`
	Headline string `csv:"headline"`
	Compound Num    `csv:"compound"`
}

func dateCell(v frame.Value) string {
	if v.Kind() == frame.Time {
		return v.Time().Format(frame.DateLayout)
	}
	return v.Text()
}

// WriteJoinedCSV writes the joined table with columns date, ticker, close, return_1d,
// return_3d, return_5d, avg_sent, n_items. Missing cells are empty.
func WriteJoinedCSV(w io.Writer, joined *frame.Frame) error {
	records := make([]*joinedRecord, 0, joined.Len())
	cell := func(name string, i int) frame.Value {
		if c := joined.Col(name); c != nil {
			return c[i]
		}
		return frame.NullValue()
	}
	for i := 0; i < joined.Len(); i++ {
		rec := &joinedRecord{
			Date:     dateCell(cell("date", i)),
			Ticker:   cell("ticker", i).Text(),
			Close:    Num(cell("close", i).FloatOrNaN()),
			Return1d: Num(cell(types.H1.Column(), i).FloatOrNaN()),
			Return3d: Num(cell(types.H3.Column(), i).FloatOrNaN()),
			Return5d: Num(cell(types.H5.Column(), i).FloatOrNaN()),
			AvgSent:  Num(cell("avg_sent", i).FloatOrNaN()),
			NItems:   Num(cell("n_items", i).FloatOrNaN()),
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return writeHeader(w, "date", "ticker", "close", "return_1d", "return_3d", "return_5d", "avg_sent", "n_items")
	}
	return gocsv.Marshal(records, w)
}

// WriteCurveCSV writes the backtest's daily portfolio returns and equity.
func WriteCurveCSV(w io.Writer, curve []types.CurvePoint) error {
	if len(curve) == 0 {
		return writeHeader(w, "date", "return", "equity")
	}
	records := make([]*curveRecord, len(curve))
	for i, p := range curve {
		records[i] = &curveRecord{Date: p.Date.Format(frame.DateLayout), Return: Num(p.Return), Equity: Num(p.Equity)}
	}
	return gocsv.Marshal(records, w)
}

// WriteScoredCSV writes every headline with its compound score.
func WriteScoredCSV(w io.Writer, scored []types.ScoredHeadline) error {
	if len(scored) == 0 {
		return writeHeader(w, "date", "ticker", "headline", "compound")
	}
	records := make([]*scoredRecord, len(scored))
	for i, s := range scored {
		records[i] = &scoredRecord{
			Date:     s.Date.Format(frame.DateLayout),
			Ticker:   s.Ticker,
			Headline: s.Headline,
			Compound: Num(s.Compound),
		}
	}
	return gocsv.Marshal(records, w)
}

func writeHeader(w io.Writer, names ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(names, ","))
	return err
}

// WriteFile creates path, including parent directories, and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
