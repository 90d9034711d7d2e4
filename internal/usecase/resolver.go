package usecase

import (
	"context"
	"encoding/json"

	"github.com/vitos/crypto_trader_ai/internal/domain"
	"go.uber.org/zap"
)

// Resolver turns a dispatch result into an AnalysisOutcome.
type Resolver struct {
	lookup     domain.AnalysisLookup
	usePayload bool
	logger     *zap.Logger
}

func NewResolver(lookup domain.AnalysisLookup, usePayload bool, logger *zap.Logger) *Resolver {
	return &Resolver{
		lookup:     lookup,
		usePayload: usePayload,
		logger:     logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, symbol domain.TradingPairSymbol, resp *domain.RawResponse, dispatchErr error) domain.AnalysisOutcome {
	if dispatchErr != nil {
		return domain.TransportFailure(symbol, dispatchErr.Error())
	}

	if r.usePayload && resp != nil {
		if analysis, ok := r.fromPayload(symbol, resp); ok {
			return domain.Found(analysis)
		}
	}

	analysis, err := r.lookup.Lookup(ctx, symbol)
	if err != nil {
		r.logger.Error("Analysis lookup failed", zap.String("symbol", symbol.String()), zap.Error(err))
		return domain.TransportFailure(symbol, "lookup failed: "+err.Error())
	}
	if analysis == nil {
		return domain.NotFound(symbol)
	}
	return domain.Found(analysis)
}

// fromPayload accepts the response body only if it is a complete analysis
// for the requested symbol.
func (r *Resolver) fromPayload(symbol domain.TradingPairSymbol, resp *domain.RawResponse) (*domain.CoinAnalysis, bool) {
	if len(resp.Body) == 0 {
		return nil, false
	}

	var analysis domain.CoinAnalysis
	if err := json.Unmarshal(resp.Body, &analysis); err != nil {
		r.logger.Debug("Response body is not an analysis payload",
			zap.String("request_id", resp.Request.RequestID), zap.Error(err))
		return nil, false
	}

	normalized, err := domain.ValidateSymbol(analysis.Symbol.String())
	if err != nil || normalized != symbol {
		return nil, false
	}
	analysis.Symbol = normalized

	if err := analysis.Validate(); err != nil {
		r.logger.Warn("Discarding invalid analysis payload",
			zap.String("request_id", resp.Request.RequestID), zap.Error(err))
		return nil, false
	}
	return &analysis, true
}
