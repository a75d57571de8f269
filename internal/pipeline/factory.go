package pipeline

import (
	"stocksage/internal/interfaces"
	"stocksage/internal/prices"
	"stocksage/internal/store"
)

// New builds a pipeline from config. A nil scorer uses the built-in lexicon.
func New(cfg *store.Config, fetcher *prices.Fetcher, scorer interfaces.Scorer) (interfaces.Pipeline, error) {
	p, err := newPipeline(cfg, fetcher, scorer)
	if err != nil {
		return nil, err
	}
	return p, nil
}
