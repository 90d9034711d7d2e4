package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

func validAnalysis() *domain.CoinAnalysis {
	return &domain.CoinAnalysis{
		Symbol:       "BTCUSDT",
		Name:         "Bitcoin",
		CurrentPrice: decimal.NewFromInt(43250),
		Change24h:    decimal.RequireFromString("2.45"),
		Suggestions: []domain.TradeSuggestion{{
			Action:      domain.ActionBuy,
			Confidence:  78,
			Rationale:   "Support holds",
			TargetPrice: decimal.NewFromInt(46500),
			StopLoss:    decimal.NewFromInt(41800),
			RiskLevel:   domain.RiskMedium,
		}},
	}
}

func TestCoinAnalysis_Validate(t *testing.T) {
	require.NoError(t, validAnalysis().Validate())

	tests := []struct {
		name   string
		mutate func(a *domain.CoinAnalysis)
	}{
		{"zero price", func(a *domain.CoinAnalysis) { a.CurrentPrice = decimal.Zero }},
		{"no suggestions", func(a *domain.CoinAnalysis) { a.Suggestions = nil }},
		{"confidence above 100", func(a *domain.CoinAnalysis) { a.Suggestions[0].Confidence = 101 }},
		{"negative confidence", func(a *domain.CoinAnalysis) { a.Suggestions[0].Confidence = -1 }},
		{"unknown action", func(a *domain.CoinAnalysis) { a.Suggestions[0].Action = "short" }},
		{"unknown risk", func(a *domain.CoinAnalysis) { a.Suggestions[0].RiskLevel = "extreme" }},
		{"blank rationale", func(a *domain.CoinAnalysis) { a.Suggestions[0].Rationale = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAnalysis()
			tt.mutate(a)
			assert.Error(t, a.Validate())
		})
	}
}

func TestCoinAnalysis_StopLossAboveTargetIsAllowed(t *testing.T) {
	a := validAnalysis()
	a.Suggestions[0].StopLoss = decimal.NewFromInt(50000)
	assert.NoError(t, a.Validate())
}
