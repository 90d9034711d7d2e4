package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/storage"
	"go.uber.org/zap"
)

type failingLookup struct {
	err error
}

func (f failingLookup) Lookup(ctx context.Context, symbol domain.TradingPairSymbol) (*domain.CoinAnalysis, error) {
	return nil, f.err
}

func demoCatalog(t *testing.T) *storage.MemoryCatalog {
	t.Helper()
	catalog, err := storage.NewMemoryCatalog(storage.DemoAnalyses()...)
	require.NoError(t, err)
	return catalog
}

func emptyCatalog(t *testing.T) *storage.MemoryCatalog {
	t.Helper()
	catalog, err := storage.NewMemoryCatalog()
	require.NoError(t, err)
	return catalog
}

func okResponse(symbol domain.TradingPairSymbol, body string) *domain.RawResponse {
	return &domain.RawResponse{
		Request:    domain.AnalysisRequest{Symbol: symbol, RequestID: "abc123xyz"},
		StatusCode: 200,
		Body:       []byte(body),
	}
}

func TestResolver_FoundInCatalog(t *testing.T) {
	r := NewResolver(demoCatalog(t), false, zap.NewNop())

	outcome := r.Resolve(context.Background(), "BTCUSDT", okResponse("BTCUSDT", ""), nil)

	assert.Equal(t, domain.OutcomeFound, outcome.Kind)
	require.NotNil(t, outcome.Analysis)
	assert.Equal(t, "Bitcoin", outcome.Analysis.Name)
	assert.True(t, outcome.Analysis.CurrentPrice.Equal(decimal.NewFromInt(43250)))
	assert.Len(t, outcome.Analysis.Suggestions, 2)
}

func TestResolver_NotFound(t *testing.T) {
	r := NewResolver(demoCatalog(t), false, zap.NewNop())

	outcome := r.Resolve(context.Background(), "DOGEUSDT", okResponse("DOGEUSDT", ""), nil)

	assert.Equal(t, domain.OutcomeNotFound, outcome.Kind)
	assert.Equal(t, domain.TradingPairSymbol("DOGEUSDT"), outcome.Symbol)
	assert.Nil(t, outcome.Analysis)
}

func TestResolver_DispatchErrorIsTransportFailure(t *testing.T) {
	r := NewResolver(demoCatalog(t), false, zap.NewNop())
	dispatchErr := &domain.TransportError{Kind: domain.TransportNonSuccessStatus, StatusCode: 500}

	outcome := r.Resolve(context.Background(), "BTCUSDT", nil, dispatchErr)

	assert.Equal(t, domain.OutcomeTransportFailure, outcome.Kind)
	assert.Equal(t, dispatchErr.Error(), outcome.Reason)
	assert.Nil(t, outcome.Analysis)
}

func TestResolver_LookupErrorIsTransportFailure(t *testing.T) {
	r := NewResolver(failingLookup{err: errors.New("database is locked")}, false, zap.NewNop())

	outcome := r.Resolve(context.Background(), "BTCUSDT", okResponse("BTCUSDT", ""), nil)

	assert.Equal(t, domain.OutcomeTransportFailure, outcome.Kind)
	assert.Contains(t, outcome.Reason, "database is locked")
}

func TestResolver_IgnoresBodyByDefault(t *testing.T) {
	r := NewResolver(emptyCatalog(t), false, zap.NewNop())
	body := `{"symbol":"XRPUSDT","name":"XRP","currentPrice":"0.5","change24h":"1","marketCap":"$1B","volume":"$1M","suggestions":[]}`

	outcome := r.Resolve(context.Background(), "XRPUSDT", okResponse("XRPUSDT", body), nil)

	assert.Equal(t, domain.OutcomeNotFound, outcome.Kind)
}

func TestResolver_UsesPayloadWhenEnabled(t *testing.T) {
	r := NewResolver(emptyCatalog(t), true, zap.NewNop())
	body := `{"symbol":"xrpusdt","name":"XRP","currentPrice":"0.5","change24h":"-1.5","marketCap":"$27B","volume":"$1.1B",
		"suggestions":[{"type":"hold","confidence":60,"reason":"Range bound","targetPrice":"0.6","stopLoss":"0.45","timeframe":"1 week","riskLevel":"low"}]}`

	outcome := r.Resolve(context.Background(), "XRPUSDT", okResponse("XRPUSDT", body), nil)

	require.Equal(t, domain.OutcomeFound, outcome.Kind)
	assert.Equal(t, domain.TradingPairSymbol("XRPUSDT"), outcome.Analysis.Symbol)
	assert.Equal(t, domain.ActionHold, outcome.Analysis.Suggestions[0].Action)
}

func TestResolver_PayloadFallsBackToCatalog(t *testing.T) {
	r := NewResolver(demoCatalog(t), true, zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `accepted`},
		{name: "other symbol", body: `{"symbol":"ETHUSDT","name":"Ethereum","currentPrice":"1","change24h":"1","marketCap":"a","volume":"b","suggestions":[]}`},
		{name: "invalid confidence", body: `{"symbol":"BTCUSDT","name":"Bitcoin","currentPrice":"1","change24h":"1","marketCap":"a","volume":"b",
			"suggestions":[{"type":"buy","confidence":140,"reason":"x","targetPrice":"2","stopLoss":"1","timeframe":"1d","riskLevel":"low"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := r.Resolve(context.Background(), "BTCUSDT", okResponse("BTCUSDT", tt.body), nil)
			require.Equal(t, domain.OutcomeFound, outcome.Kind)
			assert.Equal(t, "Bitcoin", outcome.Analysis.Name)
			assert.True(t, outcome.Analysis.CurrentPrice.Equal(decimal.NewFromInt(43250)))
		})
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(demoCatalog(t), false, zap.NewNop())

	first := r.Resolve(context.Background(), "ETHUSDT", okResponse("ETHUSDT", ""), nil)
	second := r.Resolve(context.Background(), "ETHUSDT", okResponse("ETHUSDT", ""), nil)

	assert.Equal(t, first, second)
}
