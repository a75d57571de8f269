package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type HeadlineEvent struct {
	Date     time.Time `json:"date"`
	Ticker   string    `json:"ticker"`
	Headline string    `json:"headline"`
}

type ScoredHeadline struct {
	HeadlineEvent
	Compound float64 `json:"compound"`
}

// DailySentiment is the mean compound score of one ticker's headlines on one date.
type DailySentiment struct {
	Date    time.Time `json:"date"`
	Ticker  string    `json:"ticker"`
	AvgSent float64   `json:"avg_sent"`
	NItems  int       `json:"n_items"`
}

// Horizon is a forward-return look-ahead measured in trading sessions.
type Horizon int

const (
	H1 Horizon = 1
	H3 Horizon = 3
	H5 Horizon = 5
)

// Horizons is every supported horizon, shortest first.
var Horizons = []Horizon{H1, H3, H5}

func (h Horizon) Sessions() int { return int(h) }
func (h Horizon) String() string { return fmt.Sprintf("%dd", int(h)) }
func (h Horizon) Column() string { return fmt.Sprintf("return_%dd", int(h)) }
func (h Horizon) Valid() bool { return h == H1 || h == H3 || h == H5 }

func (h Horizon) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// PricePoint is one normalized close with its forward returns. Returns that cannot be
// computed are NaN.
type PricePoint struct {
	Date    time.Time
	Ticker  string
	Close   float64
	Returns map[Horizon]float64
}

// Return is the forward return at h, NaN when unknown.
func (p PricePoint) Return(h Horizon) float64 {
	if r, ok := p.Returns[h]; ok {
		return r
	}
	return math.NaN()
}

// JoinedRow is a price row with the day's sentiment attached when there was any.
type JoinedRow struct {
	PricePoint
	AvgSent      float64
	NItems       int
	HasSentiment bool
}

type CurvePoint struct {
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
	Equity float64   `json:"equity"`
}

type BacktestResult struct {
	Horizon          Horizon      `json:"horizon"`
	Threshold        float64      `json:"threshold"`
	NSignals         int          `json:"n_signals"`
	CumulativeReturn float64      `json:"cumulative_return"`
	AvgTradeReturn   float64      `json:"avg_trade_return"`
	HitRate          float64      `json:"hit_rate"`
	DailyCurve       []CurvePoint `json:"daily_curve"`
}

// SweepRow summarizes one threshold of a sweep.
type SweepRow struct {
	Threshold        float64 `json:"threshold"`
	NSignals         int     `json:"n_signals"`
	CumulativeReturn float64 `json:"cumulative_return"`
	AvgTradeReturn   float64 `json:"avg_trade_return"`
	HitRate          float64 `json:"hit_rate"`
}

// Coefficient is a Pearson correlation between avg_sent and one horizon's returns. Value is
// NaN when either series has zero variance.
type Coefficient struct {
	Horizon Horizon `json:"horizon"`
	Value   float64 `json:"value"`
}

// MarshalJSON writes an undefined coefficient as null.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	var value *float64
	if !math.IsNaN(c.Value) && !math.IsInf(c.Value, 0) {
		value = &c.Value
	}
	return json.Marshal(struct {
		Horizon Horizon  `json:"horizon"`
		Value   *float64 `json:"value"`
	}{c.Horizon, value})
}

type CorrelationResult struct {
	Label        string        `json:"label"`
	Observations int           `json:"observations"`
	Coefficients []Coefficient `json:"coefficients"`
}

func (c CorrelationResult) Empty() bool { return len(c.Coefficients) == 0 }

// Get returns the coefficient for h.
func (c CorrelationResult) Get(h Horizon) (float64, bool) {
	for _, co := range c.Coefficients {
		if co.Horizon == h {
			return co.Value, true
		}
	}
	return math.NaN(), false
}
