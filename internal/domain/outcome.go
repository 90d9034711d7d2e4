package domain

import "fmt"

type OutcomeKind string

const (
	OutcomeFound            OutcomeKind = "found"
	OutcomeNotFound         OutcomeKind = "not_found"
	OutcomeTransportFailure OutcomeKind = "transport_failure"
)

// AnalysisOutcome is the resolved result of one analysis attempt.
type AnalysisOutcome struct {
	Kind     OutcomeKind
	Symbol   TradingPairSymbol
	Analysis *CoinAnalysis
	Reason   string
}

func Found(analysis *CoinAnalysis) AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeFound, Symbol: analysis.Symbol, Analysis: analysis}
}

func NotFound(symbol TradingPairSymbol) AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeNotFound, Symbol: symbol}
}

func TransportFailure(symbol TradingPairSymbol, reason string) AnalysisOutcome {
	return AnalysisOutcome{Kind: OutcomeTransportFailure, Symbol: symbol, Reason: reason}
}

type TransportErrorKind string

const (
	TransportNonSuccessStatus TransportErrorKind = "non_success_status"
	TransportNetworkError     TransportErrorKind = "network_error"
)

// TransportError is returned by an AnalysisDispatcher when the request
// did not get a success status back.
type TransportError struct {
	Kind       TransportErrorKind
	RequestID  string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Kind == TransportNonSuccessStatus {
		return fmt.Sprintf("analysis request %s: HTTP status %d", e.RequestID, e.StatusCode)
	}
	return fmt.Sprintf("analysis request %s: network error: %v", e.RequestID, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
