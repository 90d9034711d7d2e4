package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

func catalogs(t *testing.T) map[string]domain.AnalysisCatalog {
	t.Helper()

	mem, err := NewMemoryCatalog()
	require.NoError(t, err)

	// a distinct shared-cache name per test keeps databases apart
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqlite, err := NewSQLiteCatalog(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]domain.AnalysisCatalog{
		DriverMemory: mem,
		DriverSQLite: sqlite,
	}
}

func TestCatalog_LookupAfterSeed(t *testing.T) {
	ctx := context.Background()

	for name, c := range catalogs(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, c, DemoAnalyses()))

			btc, err := c.Lookup(ctx, "BTCUSDT")
			require.NoError(t, err)
			require.NotNil(t, btc)
			assert.Equal(t, "Bitcoin", btc.Name)
			assert.True(t, btc.CurrentPrice.Equal(decimal.NewFromInt(43250)))
			assert.True(t, btc.Change24h.Equal(decimal.RequireFromString("2.45")))
			require.Len(t, btc.Suggestions, 2)
			assert.Equal(t, domain.ActionBuy, btc.Suggestions[0].Action)
			assert.Equal(t, 78, btc.Suggestions[0].Confidence)
			assert.Equal(t, domain.ActionHold, btc.Suggestions[1].Action)

			eth, err := c.Lookup(ctx, "ETHUSDT")
			require.NoError(t, err)
			require.NotNil(t, eth)
			assert.True(t, eth.Change24h.IsNegative())
			assert.Equal(t, domain.ActionSell, eth.Suggestions[0].Action)

			miss, err := c.Lookup(ctx, "XYZUSDT")
			require.NoError(t, err)
			assert.Nil(t, miss)
		})
	}
}

func TestCatalog_SaveReplacesSuggestions(t *testing.T) {
	ctx := context.Background()

	for name, c := range catalogs(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, c, DemoAnalyses()))

			updated := DemoAnalyses()[0]
			updated.Suggestions = updated.Suggestions[1:]
			require.NoError(t, c.Save(ctx, updated))

			got, err := c.Lookup(ctx, "BTCUSDT")
			require.NoError(t, err)
			require.Len(t, got.Suggestions, 1)
			assert.Equal(t, domain.ActionHold, got.Suggestions[0].Action)

			all, err := c.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, domain.TradingPairSymbol("BTCUSDT"), all[0].Symbol)
			assert.Equal(t, domain.TradingPairSymbol("SOLUSDT"), all[2].Symbol)
		})
	}
}

func TestCatalog_RejectsInvalidAnalysis(t *testing.T) {
	ctx := context.Background()

	for name, c := range catalogs(t) {
		t.Run(name, func(t *testing.T) {
			bad := DemoAnalyses()[2]
			bad.Suggestions[0].Confidence = 150
			assert.Error(t, c.Save(ctx, bad))

			got, err := c.Lookup(ctx, "SOLUSDT")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestMemoryCatalog_LookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCatalog(DemoAnalyses()...)
	require.NoError(t, err)

	first, err := c.Lookup(ctx, "SOLUSDT")
	require.NoError(t, err)
	first.Suggestions[0].Confidence = 1

	second, err := c.Lookup(ctx, "SOLUSDT")
	require.NoError(t, err)
	assert.Equal(t, 89, second.Suggestions[0].Confidence)
}

func TestOpenCatalog(t *testing.T) {
	ctx := context.Background()

	for _, driver := range []string{DriverMemory, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			c, closeFn, err := OpenCatalog(ctx, driver, fmt.Sprintf("file:open_%s?mode=memory&cache=shared", driver))
			require.NoError(t, err)
			defer closeFn()

			sol, err := c.Lookup(ctx, "SOLUSDT")
			require.NoError(t, err)
			require.NotNil(t, sol)
			assert.Equal(t, "Solana", sol.Name)
		})
	}

	_, closeFn, err := OpenCatalog(ctx, "postgres", "")
	require.Error(t, err)
	assert.EqualError(t, err, `unknown catalog driver "postgres"`)
	_, hasStack := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, hasStack, "driver error should carry a stack trace")
	assert.NoError(t, closeFn())
}
