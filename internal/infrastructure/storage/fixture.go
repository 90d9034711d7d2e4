package storage

import (
	"github.com/shopspring/decimal"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

// DemoAnalyses returns the demonstration analyses served until the
// analysis service sends real payloads. A fresh copy is built on every call.
func DemoAnalyses() []*domain.CoinAnalysis {
	return []*domain.CoinAnalysis{
		{
			Symbol:       "BTCUSDT",
			Name:         "Bitcoin",
			CurrentPrice: decimal.NewFromInt(43250),
			Change24h:    decimal.RequireFromString("2.45"),
			MarketCap:    "$847.2B",
			Volume:       "$15.2B",
			Suggestions: []domain.TradeSuggestion{
				{
					Action:      domain.ActionBuy,
					Confidence:  78,
					Rationale:   "Strong support level reached with bullish divergence on RSI. Volume increasing on bounce.",
					TargetPrice: decimal.NewFromInt(46500),
					StopLoss:    decimal.NewFromInt(41800),
					Timeframe:   "1-2 weeks",
					RiskLevel:   domain.RiskMedium,
				},
				{
					Action:      domain.ActionHold,
					Confidence:  65,
					Rationale:   "Consolidating near resistance level. Wait for clear breakout confirmation above $44,000.",
					TargetPrice: decimal.NewFromInt(45000),
					StopLoss:    decimal.NewFromInt(42000),
					Timeframe:   "3-5 days",
					RiskLevel:   domain.RiskLow,
				},
			},
		},
		{
			Symbol:       "ETHUSDT",
			Name:         "Ethereum",
			CurrentPrice: decimal.NewFromInt(2650),
			Change24h:    decimal.RequireFromString("-1.23"),
			MarketCap:    "$318.7B",
			Volume:       "$8.9B",
			Suggestions: []domain.TradeSuggestion{
				{
					Action:      domain.ActionSell,
					Confidence:  82,
					Rationale:   "Bearish pennant formation with weakness below 20-day MA. Declining volume suggests further downside.",
					TargetPrice: decimal.NewFromInt(2400),
					StopLoss:    decimal.NewFromInt(2750),
					Timeframe:   "1 week",
					RiskLevel:   domain.RiskHigh,
				},
				{
					Action:      domain.ActionBuy,
					Confidence:  45,
					Rationale:   "Oversold conditions on daily timeframe. Potential bounce from $2,500 support level.",
					TargetPrice: decimal.NewFromInt(2800),
					StopLoss:    decimal.NewFromInt(2500),
					Timeframe:   "2-3 days",
					RiskLevel:   domain.RiskMedium,
				},
			},
		},
		{
			Symbol:       "SOLUSDT",
			Name:         "Solana",
			CurrentPrice: decimal.RequireFromString("98.75"),
			Change24h:    decimal.RequireFromString("5.67"),
			MarketCap:    "$44.3B",
			Volume:       "$1.8B",
			Suggestions: []domain.TradeSuggestion{
				{
					Action:      domain.ActionBuy,
					Confidence:  89,
					Rationale:   "Clean breakout above key resistance with strong ecosystem developments. High momentum continuation expected.",
					TargetPrice: decimal.NewFromInt(115),
					StopLoss:    decimal.NewFromInt(92),
					Timeframe:   "2-3 weeks",
					RiskLevel:   domain.RiskLow,
				},
			},
		},
	}
}

// MarketOverview is the static market statistics strip.
func MarketOverview() []domain.MarketStat {
	return []domain.MarketStat{
		{Label: "Market Cap", Value: "$1.2T", Change: "+2.4%", Positive: true},
		{Label: "24h Volume", Value: "$85.3B", Change: "+12.8%", Positive: true},
		{Label: "Active Traders", Value: "1.2M", Change: "+5.2%", Positive: true},
		{Label: "Fear & Greed", Value: "65", Change: "-3.1%", Positive: false},
	}
}
