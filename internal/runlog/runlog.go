// Package runlog keeps a daily JSON-lines journal of pipeline runs.
package runlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/types"
)

var mu sync.Mutex

// Entry is one journal line.
type Entry struct {
	Time             string        `json:"time"`
	RunID            string        `json:"run_id"`
	Provider         string        `json:"provider"`
	Tickers          []string      `json:"tickers"`
	From             string        `json:"from"`
	To               string        `json:"to"`
	Headlines        int           `json:"headlines"`
	Rows             int           `json:"rows"`
	Horizon          types.Horizon `json:"horizon"`
	Threshold        float64       `json:"threshold"`
	NSignals         int           `json:"n_signals"`
	CumulativeReturn float64       `json:"cumulative_return"`
	HitRate          float64       `json:"hit_rate"`
}

// Dir is the journal directory, STOCKSAGE_LOG_DIR or "logs".
func Dir() string {
	if v := os.Getenv("STOCKSAGE_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

// NewEntry summarizes a run.
func NewEntry(r *types.RunResult) Entry {
	return Entry{
		RunID:            r.RunID,
		Provider:         r.Provider,
		Tickers:          r.Tickers,
		From:             r.Window.From.Format(frame.DateLayout),
		To:               r.Window.To.Format(frame.DateLayout),
		Headlines:        len(r.Scored),
		Rows:             len(r.Rows),
		Horizon:          r.Backtest.Horizon,
		Threshold:        r.Backtest.Threshold,
		NSignals:         r.Backtest.NSignals,
		CumulativeReturn: r.Backtest.CumulativeReturn,
		HitRate:          r.Backtest.HitRate,
	}
}

func dailyPath(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format(frame.DateLayout)+".txt")
}

// Append stamps e with now and adds it to that day's journal file.
func Append(dir string, now time.Time, e Entry) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyPath(dir, now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintln(f, string(b)); err != nil {
		return "", err
	}
	return p, nil
}

// CompressOlder gzips journal files last modified more than retentionDays before now and
// removes the originals. Files that cannot be read are left alone.
func CompressOlder(dir string, retentionDays int, now time.Time) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	compressed := 0
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			return nil
		}
		_ = os.Remove(p)
		compressed++
		return nil
	})
	return compressed, err
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
