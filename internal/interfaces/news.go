package interfaces

import (
	"context"

	"stocksage/internal/types"
)

type HeadlineSource interface {
	Headlines(ctx context.Context, tickers []string) ([]types.HeadlineEvent, error)
}
