package web

import (
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
)

// StateView is the wire and template form of a SessionState.
type StateView struct {
	InputText  string               `json:"inputText"`
	Panel      usecase.Panel        `json:"panel"`
	IsLoading  bool                 `json:"isLoading"`
	Error      string               `json:"error,omitempty"`
	Result     *domain.CoinAnalysis `json:"result,omitempty"`
	NotFound   string               `json:"notFound,omitempty"`
	Pending    string               `json:"pending,omitempty"`
	Generation uint64               `json:"generation"`
}

func NewStateView(s usecase.SessionState) StateView {
	v := StateView{
		InputText:  s.InputText,
		Panel:      s.Panel(),
		IsLoading:  s.IsLoading,
		Error:      s.LastError,
		Result:     s.LastResult,
		NotFound:   s.NotFound.String(),
		Generation: s.Generation,
	}
	if s.IsLoading {
		v.Pending = s.Pending.String()
	}
	return v
}

type dashboardData struct {
	State       StateView
	QuickPicks  []domain.TradingPairSymbol
	MarketStats []domain.MarketStat
}
