package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/config"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/analysis"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/logger"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/storage"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"go.uber.org/zap"
)

// App holds the wired components shared by every command.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Catalog    domain.AnalysisCatalog
	Dispatcher domain.AnalysisDispatcher
	Resolver   *usecase.Resolver
	Sessions   *usecase.SessionManager

	closeCatalog func() error
}

// NewApp opens the catalog and builds the dispatcher, resolver and
// session manager from cfg.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	catalog, closeCatalog, err := storage.OpenCatalog(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}

	dispatcher := analysis.NewWebhookClient(cfg.Analysis.WebhookURL, cfg.Analysis.Timeout, log)
	resolver := usecase.NewResolver(catalog, cfg.Analysis.UseResponsePayload, log)
	sessions := usecase.NewSessionManager(dispatcher, resolver, cfg.Analysis.Timeout, cfg.Session.IdleTTL, log)

	return &App{
		Config:       cfg,
		Logger:       log,
		Catalog:      catalog,
		Dispatcher:   dispatcher,
		Resolver:     resolver,
		Sessions:     sessions,
		closeCatalog: closeCatalog,
	}, nil
}

func (a *App) Close() error {
	a.Sessions.Close()
	_ = a.Logger.Sync()
	return a.closeCatalog()
}

// newLogger writes to the configured log file when there is one. Terminal
// commands fall back to errors only so prompts stay readable.
func newLogger(cfg *config.Config, terminal bool) (*zap.Logger, error) {
	if cfg.Logging.File != "" {
		return logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	}
	if terminal {
		return logger.NewLogger("error")
	}
	return logger.NewLogger(cfg.Logging.Level)
}
