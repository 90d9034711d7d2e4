package domain

import "context"

// AnalysisDispatcher sends one analysis request to the external service.
// Failures are reported as *TransportError.
type AnalysisDispatcher interface {
	Dispatch(ctx context.Context, symbol TradingPairSymbol) (*RawResponse, error)
}

// AnalysisLookup maps a symbol to its analysis. A miss returns (nil, nil).
type AnalysisLookup interface {
	Lookup(ctx context.Context, symbol TradingPairSymbol) (*CoinAnalysis, error)
}

// AnalysisCatalog is a lookup that can be (re)seeded.
type AnalysisCatalog interface {
	AnalysisLookup
	Save(ctx context.Context, analysis *CoinAnalysis) error
	List(ctx context.Context) ([]*CoinAnalysis, error)
}
