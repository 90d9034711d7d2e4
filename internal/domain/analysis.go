package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TradeSuggestion is one recommended action for a coin.
// TargetPrice and StopLoss are not ordered relative to Action.
type TradeSuggestion struct {
	Action      Action          `json:"type"`
	Confidence  int             `json:"confidence"`
	Rationale   string          `json:"reason"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	StopLoss    decimal.Decimal `json:"stopLoss"`
	Timeframe   string          `json:"timeframe"`
	RiskLevel   RiskLevel       `json:"riskLevel"`
}

// CoinAnalysis is the display-ready result for one trading pair.
// Suggestions are kept in priority order.
type CoinAnalysis struct {
	Symbol       TradingPairSymbol `json:"symbol"`
	Name         string            `json:"name"`
	CurrentPrice decimal.Decimal   `json:"currentPrice"`
	Change24h    decimal.Decimal   `json:"change24h"`
	MarketCap    string            `json:"marketCap"`
	Volume       string            `json:"volume"`
	Suggestions  []TradeSuggestion `json:"suggestions"`
}

// Validate checks the structural invariants of an analysis.
func (a *CoinAnalysis) Validate() error {
	if a.Symbol == "" {
		return fmt.Errorf("analysis has no symbol")
	}
	if !a.CurrentPrice.IsPositive() {
		return fmt.Errorf("%s: current price must be positive, got %s", a.Symbol, a.CurrentPrice)
	}
	if len(a.Suggestions) == 0 {
		return fmt.Errorf("%s: at least one suggestion is required", a.Symbol)
	}
	for i, s := range a.Suggestions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: suggestion %d: %w", a.Symbol, i, err)
		}
	}
	return nil
}

func (s TradeSuggestion) Validate() error {
	switch s.Action {
	case ActionBuy, ActionSell, ActionHold:
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	switch s.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("unknown risk level %q", s.RiskLevel)
	}
	if s.Confidence < 0 || s.Confidence > 100 {
		return fmt.Errorf("confidence %d out of range 0-100", s.Confidence)
	}
	if strings.TrimSpace(s.Rationale) == "" {
		return fmt.Errorf("rationale is empty")
	}
	return nil
}

// AnalysisRequest is created once per submission.
type AnalysisRequest struct {
	Symbol    TradingPairSymbol
	IssuedAt  time.Time
	RequestID string
}

// RawResponse is what the analysis service acknowledged.
type RawResponse struct {
	Request    AnalysisRequest
	StatusCode int
	Body       []byte
}

// MarketStat is one tile of the static market overview.
type MarketStat struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Change   string `json:"change"`
	Positive bool   `json:"positive"`
}
