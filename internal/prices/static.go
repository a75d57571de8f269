package prices

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
)

// StaticProvider generates a deterministic random walk of weekday closes per ticker. It
// needs no network access and returns the same series for the same ticker and seed.
type StaticProvider struct {
	seed int64
}

var _ interfaces.PriceProvider = (*StaticProvider)(nil)

func NewStaticProvider(seed int64) *StaticProvider {
	return &StaticProvider{seed: seed}
}

func (p *StaticProvider) Name() string { return "STATIC" }

func (p *StaticProvider) History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write([]byte(ticker))
	r := rand.New(rand.NewSource(int64(h.Sum64()) ^ p.seed))

	// The walk starts at a fixed epoch so overlapping windows agree on shared dates.
	epoch := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
	from, to = frame.CivilDate(from), frame.CivilDate(to)
	price := 50 + r.Float64()*150

	f := frame.New("Date", "Ticker", "Close")
	for d := epoch; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price *= math.Exp(r.NormFloat64() * 0.015)
		if d.Before(from) {
			continue
		}
		f.Append(frame.TimeValue(d), frame.Str(ticker), frame.FloatValue(math.Round(price*100)/100))
	}
	return f, nil
}
