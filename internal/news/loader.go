package news

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

// RequiredColumns must be present in a headline file; other columns are ignored.
var RequiredColumns = []string{"date", "ticker", "headline"}

// Record is one row of a headline file.
type Record struct {
	Date     string `csv:"date"`
	Ticker   string `csv:"ticker"`
	Headline string `csv:"headline"`
}

// LoadHeadlinesFile reads a headline CSV from disk.
func LoadHeadlinesFile(path string) ([]types.HeadlineEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open headlines: %w", err)
	}
	defer f.Close()

	events, err := LoadHeadlines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// LoadHeadlines reads a headline CSV. Tickers are trimmed and upper-cased, headlines are
// trimmed, and dates become calendar dates. A missing required column or an unreadable
// date fails the whole load.
func LoadHeadlines(r io.Reader) ([]types.HeadlineEvent, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read headlines: %w", err)
	}
	body = bytes.TrimPrefix(body, []byte("\ufeff"))
	if err := checkHeader(string(body)); err != nil {
		return nil, err
	}

	var records []*Record
	if err := gocsv.Unmarshal(bytes.NewReader(body), &records); err != nil {
		return nil, fmt.Errorf("parse headlines: %w", err)
	}

	events := make([]types.HeadlineEvent, 0, len(records))
	for i, rec := range records {
		date, ok := frame.ParseDate(rec.Date)
		if !ok {
			// Header is line 1.
			return nil, fmt.Errorf("headlines line %d: unreadable date %q", i+2, rec.Date)
		}
		events = append(events, types.HeadlineEvent{
			Date:     frame.CivilDate(date),
			Ticker:   strings.ToUpper(strings.TrimSpace(rec.Ticker)),
			Headline: strings.TrimSpace(rec.Headline),
		})
	}
	return events, nil
}

func checkHeader(body string) error {
	header, err := csv.NewReader(strings.NewReader(body)).Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read headlines header: %w", err)
	}
	have := map[string]bool{}
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &frame.DataShapeError{Op: "headlines csv", Missing: missing}
	}
	return nil
}

// WriteHeadlines writes events in the same layout LoadHeadlines reads.
func WriteHeadlines(w io.Writer, events []types.HeadlineEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, strings.Join(RequiredColumns, ","))
		return err
	}
	records := make([]*Record, len(events))
	for i, e := range events {
		records[i] = &Record{Date: e.Date.Format(frame.DateLayout), Ticker: e.Ticker, Headline: e.Headline}
	}
	return gocsv.Marshal(records, w)
}

// Tickers returns the distinct tickers in events, sorted.
func Tickers(events []types.HeadlineEvent) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range events {
		if e.Ticker == "" || seen[e.Ticker] {
			continue
		}
		seen[e.Ticker] = true
		out = append(out, e.Ticker)
	}
	sort.Strings(out)
	return out
}
