package interfaces

import (
	"context"
	"time"

	"stocksage/internal/frame"
)

// PriceProvider returns a raw daily price table for one ticker over [from, to]. The table
// may be flat or nested by (field, ticker); an empty table means no data.
type PriceProvider interface {
	Name() string
	History(ctx context.Context, ticker string, from, to time.Time) (*frame.Frame, error)
}
