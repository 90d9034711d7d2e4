package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router      *http.ServeMux
	server      *http.Server
	sessions    *usecase.SessionManager
	quickPicks  []domain.TradingPairSymbol
	marketStats []domain.MarketStat
	logger      *zap.Logger
}

func NewServer(
	port int,
	sessions *usecase.SessionManager,
	quickPicks []domain.TradingPairSymbol,
	marketStats []domain.MarketStat,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:      http.NewServeMux(),
		sessions:    sessions,
		quickPicks:  quickPicks,
		marketStats: marketStats,
		logger:      logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Dashboard
	s.router.HandleFunc("GET /{$}", s.handleDashboard)

	// Session state
	s.router.HandleFunc("GET /api/state", s.handleState)
	s.router.HandleFunc("POST /api/input", s.handleInput)
	s.router.HandleFunc("POST /api/submit", s.handleSubmit)
	s.router.HandleFunc("POST /api/quick-pick/{symbol}", s.handleQuickPick)

	// Static data
	s.router.HandleFunc("GET /api/quick-picks", s.handleQuickPicks)
	s.router.HandleFunc("GET /api/market-stats", s.handleMarketStats)

	// Live updates
	s.router.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
