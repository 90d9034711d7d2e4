package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

// MemoryCatalog keeps analyses in a map keyed by exact symbol.
type MemoryCatalog struct {
	mu       sync.RWMutex
	analyses map[domain.TradingPairSymbol]*domain.CoinAnalysis
}

func NewMemoryCatalog(seed ...*domain.CoinAnalysis) (*MemoryCatalog, error) {
	c := &MemoryCatalog{analyses: make(map[domain.TradingPairSymbol]*domain.CoinAnalysis)}
	for _, a := range seed {
		if err := c.Save(context.Background(), a); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *MemoryCatalog) Lookup(ctx context.Context, symbol domain.TradingPairSymbol) (*domain.CoinAnalysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.analyses[symbol]
	if !ok {
		return nil, nil
	}
	return cloneAnalysis(a), nil
}

func (c *MemoryCatalog) Save(ctx context.Context, analysis *domain.CoinAnalysis) error {
	if err := analysis.Validate(); err != nil {
		return errors.Wrap(err, "invalid analysis")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyses[analysis.Symbol] = cloneAnalysis(analysis)
	return nil
}

func (c *MemoryCatalog) List(ctx context.Context) ([]*domain.CoinAnalysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.CoinAnalysis, 0, len(c.analyses))
	for _, a := range c.analyses {
		out = append(out, cloneAnalysis(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func cloneAnalysis(a *domain.CoinAnalysis) *domain.CoinAnalysis {
	cp := *a
	cp.Suggestions = append([]domain.TradeSuggestion(nil), a.Suggestions...)
	return &cp
}
