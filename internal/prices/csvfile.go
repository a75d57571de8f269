package prices

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
)

// CSVProvider serves history from a flat price file with at least date, ticker and close
// columns. Ticker cells are kept as written; other cell kinds are inferred per column.
type CSVProvider struct {
	path string

	once  sync.Once
	table *frame.Frame
	err   error
}

var _ interfaces.PriceProvider = (*CSVProvider)(nil)

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

func (p *CSVProvider) Name() string { return "CSV" }

func (p *CSVProvider) load() {
	fh, err := os.Open(p.path)
	if err != nil {
		p.err = fmt.Errorf("open price file: %w", err)
		return
	}
	defer fh.Close()

	t, err := frame.ReadCSV(fh, tickerAliases()...)
	if err != nil {
		p.err = fmt.Errorf("read price file %s: %w", p.path, err)
		return
	}
	canonicalize(t)
	if err := t.Require("price file "+p.path, "date", "ticker", "close"); err != nil {
		p.err = err
		return
	}
	p.table = t
}

// History returns the file's rows for ticker whose date falls within [from, to].
func (p *CSVProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.once.Do(p.load)
	if p.err != nil {
		return nil, p.err
	}

	from, to = frame.CivilDate(from), frame.CivilDate(to)
	want := strings.ToUpper(strings.TrimSpace(ticker))
	tickers, dates := p.table.Col("ticker"), p.table.Col("date")
	return p.table.Filter(func(i int) bool {
		if !strings.EqualFold(strings.TrimSpace(tickers[i].Text()), want) {
			return false
		}
		d := frame.AsDate(dates[i])
		if d.IsNull() {
			return false
		}
		return !d.Time().Before(from) && !d.Time().After(to)
	}), nil
}

// Tickers lists the distinct tickers in the file, in file order.
func (p *CSVProvider) Tickers() ([]string, error) {
	p.once.Do(p.load)
	if p.err != nil {
		return nil, p.err
	}
	seen := map[string]bool{}
	var out []string
	for _, v := range p.table.Col("ticker") {
		s := v.Text()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func tickerAliases() []string {
	var out []string
	for name, canon := range aliases {
		if canon == "ticker" {
			out = append(out, name)
		}
	}
	return out
}
